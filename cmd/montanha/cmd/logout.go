package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutLocal bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	Long: `Sign out of the platform. The refresh token is blacklisted on the
backend unless --local is set; the local session file is cleared either way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.store.Logout(cmd.Context(), logoutLocal); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	logoutCmd.Flags().BoolVar(&logoutLocal, "local", false, "skip server-side token invalidation")
	rootCmd.AddCommand(logoutCmd)
}
