package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/service"
)

var (
	readingsFrom   string
	readingsTo     string
	readingsMetric string
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Query environmental sensor stations",
}

var stationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		stations, err := app.stations.List(cmd.Context())
		if err != nil {
			return err
		}
		return printOutput(stations)
	},
}

var stationsReadingsCmd = &cobra.Command{
	Use:   "readings <station-id>",
	Short: "Show sensor readings for a station",
	Long: `Show measurements for one station. --from and --to accept RFC 3339
timestamps (2026-08-30T00:00:00Z); --metric narrows to one sensor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		var q service.ReadingsQuery
		if readingsFrom != "" {
			q.From, err = time.Parse(time.RFC3339, readingsFrom)
			if err != nil {
				return fmt.Errorf("parse --from: %w", err)
			}
		}
		if readingsTo != "" {
			q.To, err = time.Parse(time.RFC3339, readingsTo)
			if err != nil {
				return fmt.Errorf("parse --to: %w", err)
			}
		}
		q.Metric = readingsMetric

		readings, err := app.stations.Readings(cmd.Context(), args[0], q)
		if err != nil {
			return err
		}
		return printOutput(readings)
	},
}

func init() {
	stationsReadingsCmd.Flags().StringVar(&readingsFrom, "from", "", "start of the time window (RFC 3339)")
	stationsReadingsCmd.Flags().StringVar(&readingsTo, "to", "", "end of the time window (RFC 3339)")
	stationsReadingsCmd.Flags().StringVar(&readingsMetric, "metric", "", "metric name, e.g. temperature")
	stationsCmd.AddCommand(stationsListCmd, stationsReadingsCmd)
	rootCmd.AddCommand(stationsCmd)
}
