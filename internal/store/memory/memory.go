// Package memory provides an in-memory store implementation. It backs the
// CLI when no database is configured and gives tests a deterministic
// persistence collaborator with failure injection.
package memory

import (
	"context"
	"sync"

	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/reservations"
	"github.com/hostfolio/hostfolio/pkg/store"
)

// Store is a mutex-guarded in-memory persistence collaborator. Units are
// listed in the order they were seeded, which is the configuration order
// the matcher's first-wins tie-break relies on. The zero value is not
// usable; call New.
type Store struct {
	mu           sync.RWMutex
	units        []reservations.Unit
	reservations []reservations.Reservation

	// createErr, when set, is returned by every CreateReservation call.
	createErr error
}

var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// SeedUnits appends units in configuration order.
func (s *Store) SeedUnits(units ...reservations.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = append(s.units, units...)
}

// SeedReservations appends pre-existing reservation records.
func (s *Store) SeedReservations(res ...reservations.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, res...)
}

// FailCreates makes every subsequent CreateReservation return err. Pass nil
// to restore normal behavior.
func (s *Store) FailCreates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErr = err
}

// UnitsByProperty lists the units configured for a property, in seed order.
func (s *Store) UnitsByProperty(ctx context.Context, propertyID string) ([]reservations.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []reservations.Unit
	for _, u := range s.units {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

// UnitsByUser lists every unit configured for a user, in seed order.
func (s *Store) UnitsByUser(ctx context.Context, userID string) ([]reservations.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []reservations.Unit
	for _, u := range s.units {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	return out, nil
}

// Reservations returns the persisted reservation set for a user.
func (s *Store) Reservations(ctx context.Context, userID string) ([]reservations.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []reservations.Reservation
	for _, r := range s.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateReservation appends a record, or returns the rigged error.
func (s *Store) CreateReservation(ctx context.Context, r reservations.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return errors.WrapStore("create", "reservation", r.ID, s.createErr)
	}
	s.reservations = append(s.reservations, r)
	return nil
}

// Len returns the number of persisted reservations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations)
}
