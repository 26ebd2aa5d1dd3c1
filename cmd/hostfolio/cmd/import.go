package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostfolio/hostfolio"
	"github.com/hostfolio/hostfolio/pkg/errors"
	"github.com/hostfolio/hostfolio/pkg/logging"
	"github.com/hostfolio/hostfolio/pkg/normalize"
)

func newImportCmd() *cobra.Command {
	var (
		file         string
		profile      string
		profilesFile string
		unitsFile    string
		userID       string
		propertyID   string
		unitID       string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a reservation CSV export",
		Long: `Import parses a platform CSV export, matches rows to the configured
rental units, and persists the matched reservations.

With --property every unit of the property is matched by booking
identifier. With --unit rows are assigned to that single unit after
platform filtering.`,
		Example: `  hostfolio import --file export.csv --profile booking --user u-1 --property p-1
  hostfolio import --file export.csv --profile airbnb --user u-1 --unit unit-2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := normalize.DefaultProfiles()
			if profilesFile != "" {
				if err := profiles.LoadFile(profilesFile); err != nil {
					return err
				}
			}

			s, closeStore, err := openStore(cmd.Context(), unitsFile)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			h, err := hostfolio.New(
				hostfolio.WithStore(s),
				hostfolio.WithProfiles(profiles),
				hostfolio.WithLogger(logging.Default()),
			)
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return errors.WrapIO("open", file, err)
			}
			defer func() { _ = f.Close() }()

			report, err := h.Import(cmd.Context(), hostfolio.ImportRequest{
				Reader:     f,
				Profile:    profile,
				UserID:     userID,
				PropertyID: propertyID,
				UnitID:     unitID,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			for _, failure := range report.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "  row %d (%s): %s\n",
					failure.Row, failure.Guest, failure.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV export file to import (required)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "generic", "platform profile (booking, airbnb, generic)")
	cmd.Flags().StringVar(&profilesFile, "profiles", "", "YAML file with additional platform profiles")
	cmd.Flags().StringVar(&unitsFile, "units-file", "", "YAML unit definitions for the in-memory store")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "owning user ID (required)")
	cmd.Flags().StringVar(&propertyID, "property", "", "property whose units are matched")
	cmd.Flags().StringVar(&unitID, "unit", "", "single target unit")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
