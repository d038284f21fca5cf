package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/service"
)

var qrInput service.QRCodeInput

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Scan trail QR codes and manage them",
}

var qrScanCmd = &cobra.Command{
	Use:   "scan <code>",
	Short: "Redeem a scanned trail code for points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.requireAuth(); err != nil {
			return err
		}
		result, err := app.qr.Scan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("+%d points! Total: %d.\n", result.PointsAwarded, result.TotalPoints)
		if result.Message != "" {
			fmt.Println(result.Message)
		}
		return nil
	},
}

var qrListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed trail codes (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		codes, err := app.qr.List(cmd.Context())
		if err != nil {
			return err
		}
		return printOutput(codes)
	},
}

var qrAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new trail code (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		code, err := app.qr.Create(cmd.Context(), qrInput)
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s at %s for %d points.\n", code.Code, code.Location, code.Points)
		return nil
	},
}

var qrDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Retire a trail code (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.qr.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Retired %s.\n", args[0])
		return nil
	},
}

func init() {
	qrAddCmd.Flags().StringVar(&qrInput.Code, "code", "", "code printed on the marker")
	qrAddCmd.Flags().StringVar(&qrInput.Location, "location", "", "marker location")
	qrAddCmd.Flags().IntVar(&qrInput.Points, "points", 0, "points awarded per scan")
	qrCmd.AddCommand(qrScanCmd, qrListCmd, qrAddCmd, qrDeleteCmd)
	rootCmd.AddCommand(qrCmd)
}
