package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hostfolio/hostfolio"
	"github.com/hostfolio/hostfolio/pkg/logging"
)

func newUnitsCmd() *cobra.Command {
	var (
		userID     string
		propertyID string
		unitsFile  string
	)

	cmd := &cobra.Command{
		Use:   "units",
		Short: "List configured rental units",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openStore(cmd.Context(), unitsFile)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			h, err := hostfolio.New(
				hostfolio.WithStore(s),
				hostfolio.WithLogger(logging.Default()),
			)
			if err != nil {
				return err
			}

			units, err := h.Units(cmd.Context(), userID, propertyID)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No units configured.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPROPERTY\tPLATFORM\tIDENTIFIER")
			for _, u := range units {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					u.ID, u.Name, u.PropertyID, u.Platform, u.BookingIdentifier)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user ID (required)")
	cmd.Flags().StringVar(&propertyID, "property", "", "narrow to one property")
	cmd.Flags().StringVar(&unitsFile, "units-file", "", "YAML unit definitions for the in-memory store")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
