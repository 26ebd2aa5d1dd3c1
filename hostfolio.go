// Package hostfolio imports OTA reservation exports into a persisted
// portfolio and derives dashboard statistics from it.
//
// The pipeline has three stages: normalize (CSV rows to reservation
// drafts), match (drafts to configured rental units), and import (matched
// drafts to persisted records). Each stage is usable on its own through
// pkg/normalize, pkg/match, and pkg/importer; this package wires them
// together behind a single facade.
package hostfolio

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostfolio/hostfolio/internal/store/memory"
	"github.com/hostfolio/hostfolio/pkg/analytics"
	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/importer"
	"github.com/hostfolio/hostfolio/pkg/logging"
	"github.com/hostfolio/hostfolio/pkg/match"
	"github.com/hostfolio/hostfolio/pkg/normalize"
	"github.com/hostfolio/hostfolio/pkg/reservations"
	"github.com/hostfolio/hostfolio/pkg/store"
)

// ImportRequest describes one import run: the export file, how to read it,
// and whose units it targets.
type ImportRequest struct {
	// Reader streams the raw CSV export.
	Reader io.Reader

	// Profile names the platform profile to parse with. Required.
	Profile string

	// UserID owns the imported reservations. Required.
	UserID string

	// PropertyID selects the multi-unit flow: drafts are matched against
	// every unit of the property by booking identifier.
	PropertyID string

	// UnitID selects the single-unit flow: drafts are platform-filtered
	// against one unit. When both PropertyID and UnitID are set the unit
	// must belong to the property.
	UnitID string
}

// Hostfolio is the import and analytics facade.
type Hostfolio interface {
	// Import runs the full pipeline for one export file and returns the
	// run report. The report is non-nil whenever parsing succeeded, even
	// when the run itself failed.
	Import(ctx context.Context, req ImportRequest) (*importer.Report, error)

	// Units lists the rental units configured for a user, optionally
	// narrowed to one property.
	Units(ctx context.Context, userID, propertyID string) ([]reservations.Unit, error)

	// Summary computes the dashboard statistics snapshot for a user.
	Summary(ctx context.Context, userID string) (analytics.Summary, error)
}

type hostfolio struct {
	config *config
}

// New creates a Hostfolio instance with the given options. Without
// WithStore it runs against an empty in-memory store, which is useful for
// tests and dry runs but persists nothing.
func New(opts ...Option) (Hostfolio, error) {
	h := &hostfolio{
		config: &config{
			logger:   logging.Default(),
			profiles: normalize.DefaultProfiles(),
			clock:    time.Now,
		},
	}
	for _, opt := range opts {
		if err := opt(h.config); err != nil {
			return nil, err
		}
	}
	if h.config.store == nil {
		h.config.store = memory.New()
	}
	return h, nil
}

func (h *hostfolio) Import(ctx context.Context, req ImportRequest) (*importer.Report, error) {
	profile, err := h.config.profiles.Get(req.Profile)
	if err != nil {
		return nil, err
	}

	drafts, err := normalize.ParseAll(req.Reader, profile)
	if err != nil {
		return nil, err
	}

	results, err := h.match(ctx, req, drafts)
	if err != nil {
		if stderrors.Is(err, errors.ErrNoUnits) {
			// Keep the parsed counts inspectable even though nothing can match.
			return &importer.Report{Parsed: len(drafts), Unmatched: len(drafts)}, err
		}
		return nil, err
	}

	scope := importer.Scope{
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		UnitID:     req.UnitID,
	}
	imp := importer.New(h.config.store, importer.WithLogger(h.config.logger))
	return imp.Run(ctx, scope, results)
}

// match selects the matching flow from the request shape.
func (h *hostfolio) match(ctx context.Context, req ImportRequest, drafts []reservations.Draft) ([]match.Result, error) {
	if req.UnitID != "" {
		unit, err := h.findUnit(ctx, req)
		if err != nil {
			return nil, err
		}
		return match.Unit(drafts, unit), nil
	}

	units, err := h.config.store.UnitsByProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, errors.ErrNoUnits
	}
	return match.Units(drafts, units), nil
}

func (h *hostfolio) findUnit(ctx context.Context, req ImportRequest) (reservations.Unit, error) {
	var (
		units []reservations.Unit
		err   error
	)
	if req.PropertyID != "" {
		units, err = h.config.store.UnitsByProperty(ctx, req.PropertyID)
	} else {
		units, err = h.config.store.UnitsByUser(ctx, req.UserID)
	}
	if err != nil {
		return reservations.Unit{}, err
	}
	for _, u := range units {
		if u.ID == req.UnitID {
			return u, nil
		}
	}
	return reservations.Unit{}, errors.NewNotFoundError("unit", req.UnitID)
}

func (h *hostfolio) Units(ctx context.Context, userID, propertyID string) ([]reservations.Unit, error) {
	if propertyID != "" {
		return h.config.store.UnitsByProperty(ctx, propertyID)
	}
	return h.config.store.UnitsByUser(ctx, userID)
}

func (h *hostfolio) Summary(ctx context.Context, userID string) (analytics.Summary, error) {
	units, err := h.config.store.UnitsByUser(ctx, userID)
	if err != nil {
		return analytics.Summary{}, err
	}
	res, err := h.config.store.Reservations(ctx, userID)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(res, len(units), h.config.clock()), nil
}

type config struct {
	store    store.Store
	logger   *zerolog.Logger
	profiles *normalize.Profiles
	clock    func() time.Time
}
