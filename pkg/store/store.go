// Package store defines the contract for the external persistence
// collaborator. The core treats persistence as opaque: it lists configured
// units, creates reservation records one at a time, and reads back the full
// reservation set for analytics. Implementations live under internal/store.
package store

import (
	"context"

	"github.com/hostfolio/hostfolio/pkg/reservations"
)

// Reader provides read-only access to persisted configuration and records.
type Reader interface {
	// UnitsByProperty lists the rental units configured for a property,
	// in configuration order.
	UnitsByProperty(ctx context.Context, propertyID string) ([]reservations.Unit, error)

	// UnitsByUser lists every rental unit configured for a user account,
	// in configuration order.
	UnitsByUser(ctx context.Context, userID string) ([]reservations.Unit, error)

	// Reservations returns the full persisted reservation set for a user.
	Reservations(ctx context.Context, userID string) ([]reservations.Reservation, error)
}

// Writer provides the single-record create operation used by the
// reconciliation orchestrator. The call is fallible and idempotency-agnostic;
// no dedup key is sent.
type Writer interface {
	CreateReservation(ctx context.Context, r reservations.Reservation) error
}

// Store is the complete persistence collaborator contract.
type Store interface {
	Reader
	Writer
}
