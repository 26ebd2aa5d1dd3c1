// Package reservations defines the canonical domain types shared across the
// import pipeline: unpersisted reservation drafts produced by normalization,
// configured rental units, and persisted reservation records.
package reservations

import (
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"
)

// PlatformAffinity declares which OTA platform a rental unit is listed on.
// It is used to filter ambiguous imports when no booking identifier is
// configured for the unit.
type PlatformAffinity string

// Platform affinity values.
const (
	// AffinityBooking accepts only Booking.com-sourced drafts.
	AffinityBooking PlatformAffinity = "booking"
	// AffinityAirbnb accepts only Airbnb-sourced drafts.
	AffinityAirbnb PlatformAffinity = "airbnb"
	// AffinityBoth accepts drafts from either platform.
	AffinityBoth PlatformAffinity = "both"
	// AffinityOther accepts every draft; the source does not distinguish
	// "no preference" from "accept everything".
	AffinityOther PlatformAffinity = "other"
	// AffinityUnset is the zero value for units with no declared platform.
	AffinityUnset PlatformAffinity = ""
)

// Restrictive reports whether the affinity constrains which platforms a
// draft may come from. Unset, "both" and "other" accept everything.
func (a PlatformAffinity) Restrictive() bool {
	return a == AffinityBooking || a == AffinityAirbnb
}

// Accepts reports whether a draft's source platform string satisfies the
// affinity. The test is a case-insensitive substring match, so values like
// "Booking.com" satisfy AffinityBooking.
func (a PlatformAffinity) Accepts(platform string) bool {
	if !a.Restrictive() {
		return true
	}
	return strings.Contains(strings.ToLower(platform), string(a))
}

// Unit is a configured rental unit (a room or apartment within a property).
// Units are owned by the persistence collaborator and read-only to the core.
type Unit struct {
	ID                string           `json:"id" yaml:"id"`                                                   // Opaque unit identifier
	UserID            string           `json:"user_id" yaml:"user_id"`                                         // Owning account
	PropertyID        string           `json:"property_id" yaml:"property_id"`                                 // Parent property
	Name              string           `json:"name" yaml:"name"`                                               // Display name
	Location          string           `json:"location,omitempty" yaml:"location,omitempty"`                   // Free-text location
	Platform          PlatformAffinity `json:"platform,omitempty" yaml:"platform,omitempty"`                   // Declared platform compatibility
	BookingIdentifier string           `json:"booking_identifier,omitempty" yaml:"booking_identifier,omitempty"` // How the unit appears in OTA CSV exports
}

// HasIdentifier reports whether the unit declares an external identifier
// usable for exact matching against a draft's room label.
func (u Unit) HasIdentifier() bool {
	return strings.TrimSpace(u.BookingIdentifier) != ""
}

// Draft is an unpersisted reservation candidate produced by parsing one row
// of an export file. Date fields are raw strings in the platform-local
// format; they are normalized to UTC instants during reconciliation.
// Drafts exist only for the duration of one import run.
type Draft struct {
	BookingReference string          `json:"booking_reference,omitempty"` // External booking id, if present
	Status           string          `json:"status,omitempty"`            // Free text; defaults to "confirmed" at reconciliation
	GuestName        string          `json:"guest_name"`
	CheckIn          string          `json:"check_in"`  // Raw date string
	CheckOut         string          `json:"check_out"` // Raw date string
	RoomLabel        string          `json:"room_label,omitempty"` // Free-text unit label as it appears in the source file
	Price            decimal.Decimal `json:"price"`                // Non-negative; zero when the source value is unparsable
	Platform         string          `json:"platform"`             // Explicit column value or inferred from import context
}

// Reservation is the canonical persisted record. It is created only by the
// reconciliation orchestrator and never mutated by the core afterwards.
type Reservation struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UnitID    string          `json:"unit_id"`
	GuestName string          `json:"guest_name"`
	CheckIn   utc.Time        `json:"check_in"`
	CheckOut  utc.Time        `json:"check_out"`
	Price     decimal.Decimal `json:"price"`
	Platform  string          `json:"platform"`
	Status    string          `json:"status"`
}

// Nights returns the length of the stay as the ceiling of
// checkout minus checkin in days. A same-day or inverted range yields 0.
func (r Reservation) Nights() int {
	d := r.CheckOut.Sub(r.CheckIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// Upcoming reports whether the stay has not yet begun as of now.
func (r Reservation) Upcoming(now time.Time) bool {
	return r.CheckIn.Time.After(now)
}
