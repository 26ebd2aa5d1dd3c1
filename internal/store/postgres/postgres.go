// Package postgres implements the persistence collaborator on PostgreSQL
// via database/sql and lib/pq.
//
// Expected schema:
//
//	CREATE TABLE units (
//	    id                 TEXT PRIMARY KEY,
//	    user_id            TEXT NOT NULL,
//	    property_id        TEXT NOT NULL,
//	    name               TEXT NOT NULL,
//	    location           TEXT NOT NULL DEFAULT '',
//	    platform           TEXT NOT NULL DEFAULT '',
//	    booking_identifier TEXT NOT NULL DEFAULT '',
//	    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
//	CREATE TABLE reservations (
//	    id         TEXT PRIMARY KEY,
//	    user_id    TEXT NOT NULL,
//	    unit_id    TEXT NOT NULL REFERENCES units (id),
//	    guest_name TEXT NOT NULL DEFAULT '',
//	    check_in   TIMESTAMPTZ NOT NULL,
//	    check_out  TIMESTAMPTZ NOT NULL,
//	    price      NUMERIC(12,2) NOT NULL DEFAULT 0,
//	    platform   TEXT NOT NULL DEFAULT '',
//	    status     TEXT NOT NULL DEFAULT 'confirmed',
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// Unit listings order by created_at then id, so configuration order is the
// order units were registered in.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/agentstation/utc"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/reservations"
	"github.com/hostfolio/hostfolio/pkg/store"
)

// Store is a PostgreSQL-backed persistence collaborator.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to the database and verifies the connection with a ping.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.WrapStore("open", "database", "", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapStore("ping", "database", "", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const unitColumns = "id, user_id, property_id, name, location, platform, booking_identifier"

// UnitsByProperty lists the units configured for a property.
func (s *Store) UnitsByProperty(ctx context.Context, propertyID string) ([]reservations.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+unitColumns+" FROM units WHERE property_id = $1 ORDER BY created_at, id",
		propertyID)
	if err != nil {
		return nil, errors.WrapStore("list", "units", propertyID, err)
	}
	return scanUnits(rows, propertyID)
}

// UnitsByUser lists every unit configured for a user account.
func (s *Store) UnitsByUser(ctx context.Context, userID string) ([]reservations.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+unitColumns+" FROM units WHERE user_id = $1 ORDER BY created_at, id",
		userID)
	if err != nil {
		return nil, errors.WrapStore("list", "units", userID, err)
	}
	return scanUnits(rows, userID)
}

func scanUnits(rows *sql.Rows, key string) ([]reservations.Unit, error) {
	defer rows.Close()

	var units []reservations.Unit
	for rows.Next() {
		var u reservations.Unit
		if err := rows.Scan(&u.ID, &u.UserID, &u.PropertyID, &u.Name,
			&u.Location, &u.Platform, &u.BookingIdentifier); err != nil {
			return nil, errors.WrapStore("scan", "unit", key, err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("list", "units", key, err)
	}
	return units, nil
}

// Reservations returns the full persisted reservation set for a user.
func (s *Store) Reservations(ctx context.Context, userID string) ([]reservations.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, unit_id, guest_name, check_in, check_out, price, platform, status
		 FROM reservations WHERE user_id = $1 ORDER BY check_in, id`,
		userID)
	if err != nil {
		return nil, errors.WrapStore("list", "reservations", userID, err)
	}
	defer rows.Close()

	var out []reservations.Reservation
	for rows.Next() {
		var (
			r        reservations.Reservation
			checkIn  time.Time
			checkOut time.Time
			price    string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.UnitID, &r.GuestName,
			&checkIn, &checkOut, &price, &r.Platform, &r.Status); err != nil {
			return nil, errors.WrapStore("scan", "reservation", userID, err)
		}
		r.CheckIn = utc.Time{Time: checkIn.UTC()}
		r.CheckOut = utc.Time{Time: checkOut.UTC()}
		r.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, errors.WrapStore("scan", "reservation", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("list", "reservations", userID, err)
	}
	return out, nil
}

// CreateReservation persists one reservation record.
func (s *Store) CreateReservation(ctx context.Context, r reservations.Reservation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reservations (id, user_id, unit_id, guest_name, check_in, check_out, price, platform, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.UserID, r.UnitID, r.GuestName,
		r.CheckIn.Time, r.CheckOut.Time, r.Price.String(), r.Platform, r.Status)
	if err != nil {
		return errors.WrapStore("create", "reservation", r.ID, err)
	}
	return nil
}
