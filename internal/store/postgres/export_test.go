package postgres

import (
	"context"

	"github.com/hostfolio/hostfolio/pkg/reservations"
)

// InsertUnitForTest seeds a unit row. Units are read-only through the store
// contract, so the insert lives here rather than on the public surface.
func (s *Store) InsertUnitForTest(ctx context.Context, u reservations.Unit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO units (id, user_id, property_id, name, location, platform, booking_identifier)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.UserID, u.PropertyID, u.Name, u.Location, string(u.Platform), u.BookingIdentifier)
	return err
}
