package cmd

import (
	"context"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"

	"github.com/hostfolio/hostfolio/internal/store/memory"
	"github.com/hostfolio/hostfolio/internal/store/postgres"
	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/logging"
	"github.com/hostfolio/hostfolio/pkg/reservations"
	"github.com/hostfolio/hostfolio/pkg/store"
)

// openStore selects the persistence backend. With HOSTFOLIO_POSTGRES_DSN set
// it connects to Postgres; otherwise it builds an in-memory store, optionally
// seeded with units from unitsFile. The returned closer is always non-nil.
func openStore(ctx context.Context, unitsFile string) (store.Store, func() error, error) {
	if dsn := viper.GetString("postgres_dsn"); dsn != "" {
		s, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		logging.Debug().Msg("Using postgres store")
		return s, s.Close, nil
	}

	s := memory.New()
	if unitsFile != "" {
		units, err := loadUnits(unitsFile)
		if err != nil {
			return nil, nil, err
		}
		s.SeedUnits(units...)
		logging.Debug().Int("units", len(units)).Str("file", unitsFile).Msg("Seeded in-memory store")
	}
	return s, func() error { return nil }, nil
}

// loadUnits reads unit definitions from a YAML file, in file order.
func loadUnits(path string) ([]reservations.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var units []reservations.Unit
	if err := yaml.Unmarshal(data, &units); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	for i, u := range units {
		if u.ID == "" || u.UserID == "" {
			return nil, errors.NewValidationError("units", i, "entry missing id or user_id")
		}
	}
	return units, nil
}
