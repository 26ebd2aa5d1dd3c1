// Package analytics derives dashboard statistics from persisted
// reservations. Every function here is pure: it takes the reservation set,
// the unit count, and an explicit clock, and computes the same answer for
// the same inputs, so callers control determinism.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hostfolio/hostfolio/pkg/reservations"
)

// monthlyWindow caps the revenue series at the most recent calendar months.
const monthlyWindow = 6

// MonthlyBucket aggregates booked revenue for one calendar month, keyed by
// check-in date.
type MonthlyBucket struct {
	Month        string          `json:"month"` // YYYY-MM
	Revenue      decimal.Decimal `json:"revenue"`
	Reservations int             `json:"reservations"`
}

// Summary is the full statistics snapshot for one user's portfolio.
type Summary struct {
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalReservations    int             `json:"total_reservations"`
	UnitCount            int             `json:"unit_count"`
	UpcomingReservations int             `json:"upcoming_reservations"`
	OccupancyRate        float64         `json:"occupancy_rate"`
	Monthly              []MonthlyBucket `json:"monthly"`
}

// OccupancyRate returns the percentage of the current month's unit-night
// capacity consumed by reservations, rounded to two decimal places.
//
// A reservation contributes its full night count when its check-in or
// check-out falls inside now's calendar month, even when the stay straddles
// a month boundary. Capacity is days-in-month times unitCount; with no
// units the rate is 0 rather than a division error.
func OccupancyRate(res []reservations.Reservation, unitCount int, now time.Time) float64 {
	if unitCount <= 0 {
		return 0
	}

	year, month, _ := now.UTC().Date()
	nights := 0
	for _, r := range res {
		if inMonth(r.CheckIn.Time, year, month) || inMonth(r.CheckOut.Time, year, month) {
			nights += r.Nights()
		}
	}
	if nights == 0 {
		return 0
	}

	capacity := daysIn(year, month) * unitCount
	rate := float64(nights) / float64(capacity) * 100
	return math.Round(rate*100) / 100
}

// MonthlyRevenue buckets revenue by the check-in month, in ascending
// calendar order, truncated to the most recent six months present in the
// data. Months with no reservations produce no bucket.
func MonthlyRevenue(res []reservations.Reservation) []MonthlyBucket {
	byMonth := make(map[string]*MonthlyBucket)
	for _, r := range res {
		key := r.CheckIn.UTC().Format("2006-01")
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlyBucket{Month: key}
			byMonth[key] = bucket
		}
		bucket.Revenue = bucket.Revenue.Add(r.Price)
		bucket.Reservations++
	}

	months := make([]string, 0, len(byMonth))
	for key := range byMonth {
		months = append(months, key)
	}
	sort.Strings(months) // YYYY-MM sorts chronologically
	if len(months) > monthlyWindow {
		months = months[len(months)-monthlyWindow:]
	}

	buckets := make([]MonthlyBucket, 0, len(months))
	for _, key := range months {
		buckets = append(buckets, *byMonth[key])
	}
	return buckets
}

// Summarize computes the complete snapshot for a reservation set.
func Summarize(res []reservations.Reservation, unitCount int, now time.Time) Summary {
	s := Summary{
		TotalRevenue:      decimal.Zero,
		TotalReservations: len(res),
		UnitCount:         unitCount,
		OccupancyRate:     OccupancyRate(res, unitCount, now),
		Monthly:           MonthlyRevenue(res),
	}
	for _, r := range res {
		s.TotalRevenue = s.TotalRevenue.Add(r.Price)
		if r.Upcoming(now) {
			s.UpcomingReservations++
		}
	}
	return s
}

func inMonth(t time.Time, year int, month time.Month) bool {
	y, m, _ := t.UTC().Date()
	return y == year && m == month
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
