package hostfolio

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/normalize"
	"github.com/hostfolio/hostfolio/pkg/store"
)

// Option is a function that configures a Hostfolio instance.
type Option func(*config) error

// WithStore configures the persistence collaborator. Without it an empty
// in-memory store is used.
func WithStore(s store.Store) Option {
	return func(c *config) error {
		if s == nil {
			return errors.NewConfigError("hostfolio", "store must not be nil", errors.ErrInvalidInput)
		}
		c.store = s
		return nil
	}
}

// WithLogger configures the logger used for pipeline progress events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithProfiles replaces the built-in platform profile registry, typically
// after loading extra profiles from a YAML file.
func WithProfiles(profiles *normalize.Profiles) Option {
	return func(c *config) error {
		if profiles == nil {
			return errors.NewConfigError("hostfolio", "profiles must not be nil", errors.ErrInvalidInput)
		}
		c.profiles = profiles
		return nil
	}
}

// WithClock overrides the analytics clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		if clock != nil {
			c.clock = clock
		}
		return nil
	}
}
