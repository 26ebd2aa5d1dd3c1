// Package importer turns matched reservation drafts into persisted
// reservation records. It normalizes date fields to UTC instants, defaults
// the status, and issues single-record create calls against the persistence
// collaborator one at a time, accumulating an ImportReport.
//
// The run is best effort: an individual create failure is recorded and the
// remaining drafts are still processed, since OTA exports are large and one
// malformed row should not void the rest. Pre-condition violations (no
// scope selected, nothing matched) fail fast with zero creates issued.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/logging"
	"github.com/hostfolio/hostfolio/pkg/match"
	"github.com/hostfolio/hostfolio/pkg/reservations"
	"github.com/hostfolio/hostfolio/pkg/store"
)

// defaultStatus is recorded when the source file carries no status column.
const defaultStatus = "confirmed"

// Scope identifies whose reservations are being imported and where they
// belong. UserID is always required; at least one of PropertyID or UnitID
// selects the target.
type Scope struct {
	UserID     string
	PropertyID string
	UnitID     string
}

func (s Scope) validate() error {
	if s.UserID == "" {
		return errors.NewConfigError("importer", "no user selected", errors.ErrInvalidInput)
	}
	if s.PropertyID == "" && s.UnitID == "" {
		return errors.NewConfigError("importer", "no property or unit selected", errors.ErrInvalidInput)
	}
	return nil
}

// Importer persists matched drafts through the store's create operation.
type Importer struct {
	writer store.Writer
	logger *zerolog.Logger
	newID  func() string
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for run progress events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithIDGenerator overrides reservation ID minting, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(i *Importer) {
		if fn != nil {
			i.newID = fn
		}
	}
}

// New creates an Importer that persists through w.
func New(w store.Writer, opts ...Option) *Importer {
	i := &Importer{
		writer: w,
		logger: logging.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run reconciles the match results into persisted reservations and returns
// the report for the run. The report is always non-nil so callers can
// inspect counts even when the run fails its pre-conditions.
//
// Creates are issued sequentially in input order. Cancellation between
// create calls abandons the remainder of the batch; records already created
// remain persisted.
func (i *Importer) Run(ctx context.Context, scope Scope, results []match.Result) (*Report, error) {
	report := &Report{
		RunID:  i.newID(),
		Parsed: len(results),
	}
	report.Matched, report.Unmatched = match.Counts(results)

	if err := scope.validate(); err != nil {
		return report, err
	}
	if report.Matched == 0 {
		return report, errors.ErrNoMatches
	}

	logger := i.logger.With().Str("run_id", report.RunID).Logger()
	logger.Info().
		Int("parsed", report.Parsed).
		Int("matched", report.Matched).
		Int("unmatched", report.Unmatched).
		Msg("Starting reservation import")

	for row, result := range results {
		if !result.Matched() {
			continue
		}

		if err := ctx.Err(); err != nil {
			report.fail(row+1, result.Draft.GuestName, "import canceled")
			logger.Warn().Int("row", row+1).Msg("Import canceled mid-run")
			return report, errors.ErrCanceled
		}

		record, err := i.build(scope, result)
		if err != nil {
			report.fail(row+1, result.Draft.GuestName, err.Error())
			continue
		}

		if err := i.writer.CreateReservation(ctx, record); err != nil {
			report.fail(row+1, result.Draft.GuestName, err.Error())
			logger.Debug().
				Err(err).
				Int("row", row+1).
				Str("unit_id", record.UnitID).
				Msg("Create failed, continuing")
			continue
		}
		report.Uploaded++
	}

	logger.Info().
		Int("uploaded", report.Uploaded).
		Int("failed", report.Failed).
		Msg("Reservation import finished")
	return report, nil
}

// build constructs the canonical record for one matched draft.
func (i *Importer) build(scope Scope, result match.Result) (reservations.Reservation, error) {
	checkIn, err := parseDate(result.Draft.CheckIn)
	if err != nil {
		return reservations.Reservation{}, fmt.Errorf("check-in: %w", err)
	}
	checkOut, err := parseDate(result.Draft.CheckOut)
	if err != nil {
		return reservations.Reservation{}, fmt.Errorf("check-out: %w", err)
	}

	status := strings.ToLower(strings.TrimSpace(result.Draft.Status))
	if status == "" {
		status = defaultStatus
	}

	return reservations.Reservation{
		ID:        i.newID(),
		UserID:    scope.UserID,
		UnitID:    result.UnitID,
		GuestName: result.Draft.GuestName,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Price:     result.Draft.Price,
		Platform:  result.Draft.Platform,
		Status:    status,
	}, nil
}

// dateOnlyLayouts are interpreted as UTC midnight; platforms export bare
// calendar dates with no zone information.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// dateTimeLayouts carry a wall-clock time and are interpreted in the
// import-time local zone before conversion to UTC.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDate normalizes a raw platform-local date string to a UTC instant.
func parseDate(raw string) (utc.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return utc.Time{}, errors.NewParseError("date", "", "empty date", nil)
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return utc.Time{Time: t.UTC()}, nil
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utc.Time{Time: t}, nil
		}
	}
	return utc.Time{}, errors.NewParseError("date", "", fmt.Sprintf("unrecognized date %q", raw), nil)
}
