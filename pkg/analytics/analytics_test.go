package analytics_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolio/hostfolio/pkg/analytics"
	"github.com/hostfolio/hostfolio/pkg/reservations"
)

func day(year int, month time.Month, d int) utc.Time {
	return utc.Time{Time: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)}
}

func stay(checkIn, checkOut utc.Time, price int64) reservations.Reservation {
	return reservations.Reservation{
		ID:       "r-" + checkIn.Format("2006-01-02"),
		UserID:   "user-1",
		UnitID:   "u1",
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Price:    decimal.NewFromInt(price),
		Status:   "confirmed",
	}
}

func TestOccupancyRate(t *testing.T) {
	march := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("single stay in month", func(t *testing.T) {
		res := []reservations.Reservation{
			stay(day(2024, time.March, 10), day(2024, time.March, 13), 300),
		}
		// 3 nights over 31 unit-nights.
		assert.InDelta(t, 9.68, analytics.OccupancyRate(res, 1, march), 0.001)
	})

	t.Run("straddling stay counts full nights", func(t *testing.T) {
		res := []reservations.Reservation{
			stay(day(2024, time.February, 28), day(2024, time.March, 2), 300),
		}
		// Check-out lands in March, so all 3 nights count toward March.
		assert.InDelta(t, 9.68, analytics.OccupancyRate(res, 1, march), 0.001)
	})

	t.Run("stays outside the month are ignored", func(t *testing.T) {
		res := []reservations.Reservation{
			stay(day(2024, time.January, 10), day(2024, time.January, 13), 300),
			stay(day(2024, time.May, 1), day(2024, time.May, 4), 300),
		}
		assert.Zero(t, analytics.OccupancyRate(res, 1, march))
	})

	t.Run("capacity scales with unit count", func(t *testing.T) {
		res := []reservations.Reservation{
			stay(day(2024, time.March, 10), day(2024, time.March, 13), 300),
		}
		assert.InDelta(t, 4.84, analytics.OccupancyRate(res, 2, march), 0.001)
	})

	t.Run("no units yields zero", func(t *testing.T) {
		res := []reservations.Reservation{
			stay(day(2024, time.March, 10), day(2024, time.March, 13), 300),
		}
		assert.Zero(t, analytics.OccupancyRate(res, 0, march))
	})

	t.Run("no reservations yields zero", func(t *testing.T) {
		assert.Zero(t, analytics.OccupancyRate(nil, 3, march))
	})
}

func TestMonthlyRevenue(t *testing.T) {
	t.Run("buckets by check-in month ascending", func(t *testing.T) {
		res := []reservations.Reservation{
			stay(day(2024, time.March, 10), day(2024, time.March, 12), 200),
			stay(day(2024, time.January, 5), day(2024, time.January, 8), 150),
			stay(day(2024, time.March, 20), day(2024, time.March, 22), 100),
		}

		buckets := analytics.MonthlyRevenue(res)
		require.Len(t, buckets, 2)

		assert.Equal(t, "2024-01", buckets[0].Month)
		assert.True(t, buckets[0].Revenue.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 1, buckets[0].Reservations)

		assert.Equal(t, "2024-03", buckets[1].Month)
		assert.True(t, buckets[1].Revenue.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, 2, buckets[1].Reservations)
	})

	t.Run("keeps only the most recent six months", func(t *testing.T) {
		var res []reservations.Reservation
		for m := time.January; m <= time.September; m++ {
			res = append(res, stay(day(2024, m, 1), day(2024, m, 3), 100))
		}

		buckets := analytics.MonthlyRevenue(res)
		require.Len(t, buckets, 6)
		assert.Equal(t, "2024-04", buckets[0].Month)
		assert.Equal(t, "2024-09", buckets[5].Month)
		for i := 1; i < len(buckets); i++ {
			assert.Less(t, buckets[i-1].Month, buckets[i].Month)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, analytics.MonthlyRevenue(nil))
	})
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	res := []reservations.Reservation{
		stay(day(2024, time.March, 10), day(2024, time.March, 13), 300),
		stay(day(2024, time.March, 20), day(2024, time.March, 22), 200), // upcoming
		stay(day(2024, time.April, 1), day(2024, time.April, 5), 400),   // upcoming
	}

	s := analytics.Summarize(res, 2, now)

	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(900)), "got %s", s.TotalRevenue)
	assert.Equal(t, 3, s.TotalReservations)
	assert.Equal(t, 2, s.UnitCount)
	assert.Equal(t, 2, s.UpcomingReservations)
	// March nights: 3 + 2 = 5 over 62 unit-nights.
	assert.InDelta(t, 8.06, s.OccupancyRate, 0.001)
	require.Len(t, s.Monthly, 2)
	assert.Equal(t, "2024-03", s.Monthly[0].Month)
	assert.Equal(t, "2024-04", s.Monthly[1].Month)
}

func TestSummarizeEmpty(t *testing.T) {
	s := analytics.Summarize(nil, 0, time.Now())
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Zero(t, s.TotalReservations)
	assert.Zero(t, s.UpcomingReservations)
	assert.Zero(t, s.OccupancyRate)
	assert.Empty(t, s.Monthly)
}
