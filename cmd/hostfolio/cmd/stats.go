package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostfolio/hostfolio"
	"github.com/hostfolio/hostfolio/pkg/logging"
)

func newStatsCmd() *cobra.Command {
	var (
		userID    string
		unitsFile string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio statistics for a user",
		Long: `Stats reports occupancy rate for the current month, total and
per-month revenue, and upcoming reservation counts.`,
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

			summary, err := h.Summary(cmd.Context(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintf(out, "Units:                 %d\n", summary.UnitCount)
			fmt.Fprintf(out, "Reservations:          %d\n", summary.TotalReservations)
			fmt.Fprintf(out, "Upcoming:              %d\n", summary.UpcomingReservations)
			fmt.Fprintf(out, "Total revenue:         %s\n", summary.TotalRevenue)
			fmt.Fprintf(out, "Occupancy this month:  %.2f%%\n", summary.OccupancyRate)
			if len(summary.Monthly) > 0 {
				fmt.Fprintln(out, "Monthly revenue:")
				for _, bucket := range summary.Monthly {
					fmt.Fprintf(out, "  %s  %s (%d reservations)\n",
						bucket.Month, bucket.Revenue, bucket.Reservations)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user ID (required)")
	cmd.Flags().StringVar(&unitsFile, "units-file", "", "YAML unit definitions for the in-memory store")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
