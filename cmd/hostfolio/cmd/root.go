// Package cmd implements the hostfolio CLI commands.
package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hostfolio/hostfolio/pkg/logging"
)

// envPrefix scopes environment variables, e.g. HOSTFOLIO_POSTGRES_DSN.
const envPrefix = "HOSTFOLIO"

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd(version, commit string) *cobra.Command {
	var (
		logLevel string
		verbose  bool
		quiet    bool
	)

	root := &cobra.Command{
		Use:     "hostfolio",
		Short:   "Import OTA reservation exports and report portfolio statistics",
		Long: `Hostfolio imports reservation CSV exports from booking platforms,
matches rows to configured rental units, persists the reservations, and
derives occupancy and revenue statistics.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env files are optional; environment always wins.
			_ = godotenv.Load()

			viper.SetEnvPrefix(envPrefix)
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
			viper.AutomaticEnv()

			level := logLevel
			if verbose {
				level = "debug"
			}
			if quiet {
				level = "error"
			}
			cfg := logging.DefaultConfig()
			cfg.Level = level
			logging.Configure(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(newImportCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newUnitsCmd())

	return root
}
