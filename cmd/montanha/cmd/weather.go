package cmd

import (
	"github.com/spf13/cobra"
)

var weatherStation string

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current mountain conditions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		w, err := app.weather.Current(cmd.Context(), weatherStation)
		if err != nil {
			return err
		}
		return printOutput(w)
	},
}

func init() {
	weatherCmd.Flags().StringVar(&weatherStation, "station", "", "station id (default: mountain-wide aggregate)")
	rootCmd.AddCommand(weatherCmd)
}
