package importer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/importer"
	"github.com/hostfolio/hostfolio/pkg/match"
	"github.com/hostfolio/hostfolio/pkg/reservations"
)

// fakeWriter records created reservations and can be rigged to fail for
// specific guests.
type fakeWriter struct {
	created []reservations.Reservation
	failFor map[string]error
}

func (f *fakeWriter) CreateReservation(_ context.Context, r reservations.Reservation) error {
	if err, ok := f.failFor[r.GuestName]; ok {
		return err
	}
	f.created = append(f.created, r)
	return nil
}

func matchedResult(guest, checkIn, checkOut, unitID string) match.Result {
	return match.Result{
		Draft: reservations.Draft{
			GuestName: guest,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			Price:     decimal.NewFromInt(100),
			Platform:  "Booking.com",
		},
		UnitID:   unitID,
		Strategy: match.StrategyIdentifier,
	}
}

func unmatchedResult(guest string) match.Result {
	return match.Result{
		Draft:    reservations.Draft{GuestName: guest},
		Strategy: match.StrategyNone,
		Reason:   "room label matches no unit identifier",
	}
}

func testScope() importer.Scope {
	return importer.Scope{UserID: "user-1", PropertyID: "prop-1"}
}

func TestRunPartialSuccess(t *testing.T) {
	writer := &fakeWriter{failFor: map[string]error{
		"Bob": errors.New("store rejected record"),
	}}
	imp := importer.New(writer)

	results := []match.Result{
		matchedResult("Alice", "2024-03-01", "2024-03-04", "u1"),
		matchedResult("Bob", "2024-03-05", "2024-03-06", "u1"),
		unmatchedResult("Carol"),
	}

	report, err := imp.Run(context.Background(), testScope(), results)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Parsed)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].Row)
	assert.Equal(t, "Bob", report.Failures[0].Guest)
	assert.Contains(t, report.Failures[0].Reason, "store rejected record")

	// Only the successful create reached the store.
	require.Len(t, writer.created, 1)
	assert.Equal(t, "Alice", writer.created[0].GuestName)
	assert.Equal(t, "u1", writer.created[0].UnitID)
	assert.Equal(t, "user-1", writer.created[0].UserID)
	assert.NotEmpty(t, report.RunID)
}

func TestRunNormalizesRecord(t *testing.T) {
	writer := &fakeWriter{}
	imp := importer.New(writer)

	result := matchedResult("Alice", "2024-03-01", "2024-03-04", "u1")
	result.Draft.Status = "  CANCELLED "

	_, err := imp.Run(context.Background(), testScope(), []match.Result{result})
	require.NoError(t, err)
	require.Len(t, writer.created, 1)

	created := writer.created[0]
	assert.Equal(t, "cancelled", created.Status)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), created.CheckIn.Time)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), created.CheckOut.Time)
	assert.Equal(t, time.UTC, created.CheckIn.Location())
	assert.NotEmpty(t, created.ID)
}

func TestRunDefaultsStatusToConfirmed(t *testing.T) {
	writer := &fakeWriter{}
	imp := importer.New(writer)

	_, err := imp.Run(context.Background(), testScope(),
		[]match.Result{matchedResult("Alice", "2024-03-01", "2024-03-04", "u1")})
	require.NoError(t, err)
	require.Len(t, writer.created, 1)
	assert.Equal(t, "confirmed", writer.created[0].Status)
}

func TestRunAcceptsVariedDateLayouts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantDay int
	}{
		{"iso date", "2024-03-04", 4},
		{"us slash date", "03/05/2024", 5},
		{"textual date", "06 Mar 2024", 6},
		{"comma textual date", "Mar 7, 2024", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{}
			imp := importer.New(writer)

			_, err := imp.Run(context.Background(), testScope(),
				[]match.Result{matchedResult("Alice", "2024-03-01", tt.raw, "u1")})
			require.NoError(t, err)
			require.Len(t, writer.created, 1)
			assert.Equal(t, tt.wantDay, writer.created[0].CheckOut.Day())
			assert.Equal(t, time.March, writer.created[0].CheckOut.Month())
		})
	}
}

func TestRunRecordsUnparsableDates(t *testing.T) {
	writer := &fakeWriter{}
	imp := importer.New(writer)

	results := []match.Result{
		matchedResult("Alice", "soon", "2024-03-04", "u1"),
		matchedResult("Bob", "2024-03-05", "2024-03-06", "u1"),
	}

	report, err := imp.Run(context.Background(), testScope(), results)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Row)
	assert.Contains(t, report.Failures[0].Reason, "check-in")
	require.Len(t, writer.created, 1)
	assert.Equal(t, "Bob", writer.created[0].GuestName)
}

func TestRunFailsFastWithoutScope(t *testing.T) {
	writer := &fakeWriter{}
	imp := importer.New(writer)
	results := []match.Result{matchedResult("Alice", "2024-03-01", "2024-03-04", "u1")}

	t.Run("missing user", func(t *testing.T) {
		report, err := imp.Run(context.Background(), importer.Scope{PropertyID: "p1"}, results)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.Zero(t, report.Uploaded)
		assert.Empty(t, writer.created)
	})

	t.Run("missing target", func(t *testing.T) {
		report, err := imp.Run(context.Background(), importer.Scope{UserID: "user-1"}, results)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.Zero(t, report.Uploaded)
		assert.Empty(t, writer.created)
	})
}

func TestRunFailsFastWithoutMatches(t *testing.T) {
	writer := &fakeWriter{}
	imp := importer.New(writer)

	report, err := imp.Run(context.Background(), testScope(),
		[]match.Result{unmatchedResult("Alice"), unmatchedResult("Bob")})

	require.ErrorIs(t, err, pkgerrors.ErrNoMatches)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 2, report.Unmatched)
	assert.Zero(t, report.Uploaded)
	assert.Empty(t, writer.created)
}

func TestRunStopsOnCancellation(t *testing.T) {
	writer := &fakeWriter{}
	imp := importer.New(writer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := imp.Run(ctx, testScope(),
		[]match.Result{matchedResult("Alice", "2024-03-01", "2024-03-04", "u1")})

	require.ErrorIs(t, err, pkgerrors.ErrCanceled)
	assert.Zero(t, report.Uploaded)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, writer.created)
}

func TestRunPreservesFailureRowOrder(t *testing.T) {
	writer := &fakeWriter{failFor: map[string]error{
		"Alice": errors.New("boom"),
		"Carol": errors.New("boom"),
	}}
	imp := importer.New(writer)

	results := []match.Result{
		matchedResult("Alice", "2024-03-01", "2024-03-02", "u1"),
		matchedResult("Bob", "2024-03-03", "2024-03-04", "u1"),
		matchedResult("Carol", "2024-03-05", "2024-03-06", "u1"),
	}

	report, err := imp.Run(context.Background(), testScope(), results)
	require.NoError(t, err)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, 1, report.Failures[0].Row)
	assert.Equal(t, "Alice", report.Failures[0].Guest)
	assert.Equal(t, 3, report.Failures[1].Row)
	assert.Equal(t, "Carol", report.Failures[1].Guest)
}

func TestRunTotalStoreFailure(t *testing.T) {
	writer := &fakeWriter{failFor: map[string]error{
		"Alice": pkgerrors.ErrStoreUnavailable,
		"Bob":   pkgerrors.ErrStoreUnavailable,
	}}
	imp := importer.New(writer)

	results := []match.Result{
		matchedResult("Alice", "2024-03-01", "2024-03-02", "u1"),
		matchedResult("Bob", "2024-03-03", "2024-03-04", "u1"),
	}

	report, err := imp.Run(context.Background(), testScope(), results)
	require.NoError(t, err)
	assert.Zero(t, report.Uploaded)
	assert.Equal(t, report.Matched, report.Failed)
	assert.False(t, report.IsSuccess())
}

func TestReportSummary(t *testing.T) {
	tests := []struct {
		name   string
		report importer.Report
		want   string
	}{
		{
			"all uploaded",
			importer.Report{Parsed: 2, Matched: 2, Uploaded: 2},
			"imported 2 reservations",
		},
		{
			"with unmatched",
			importer.Report{Parsed: 3, Matched: 2, Unmatched: 1, Uploaded: 2},
			"imported 2 of 3 reservations (1 unmatched)",
		},
		{
			"with failures",
			importer.Report{Parsed: 3, Matched: 2, Unmatched: 1, Uploaded: 1, Failed: 1},
			"imported 1 of 3 reservations (1 unmatched, 1 failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Summary())
		})
	}
}

func TestWithIDGenerator(t *testing.T) {
	writer := &fakeWriter{}
	seq := 0
	imp := importer.New(writer, importer.WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}))

	report, err := imp.Run(context.Background(), testScope(),
		[]match.Result{matchedResult("Alice", "2024-03-01", "2024-03-04", "u1")})
	require.NoError(t, err)

	assert.Equal(t, "id-1", report.RunID)
	require.Len(t, writer.created, 1)
	assert.Equal(t, "id-2", writer.created[0].ID)
}
