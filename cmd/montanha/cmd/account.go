package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	accountCurrentPassword string
	accountNewPassword     string
	accountDeleteConfirm   bool
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the signed-in account",
}

var accountPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the account password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if accountCurrentPassword == "" || accountNewPassword == "" {
			return fmt.Errorf("both --current and --new are required")
		}
		if err := app.requireAuth(); err != nil {
			return err
		}
		if err := app.auth.ChangePassword(cmd.Context(), accountCurrentPassword, accountNewPassword); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Permanently delete the account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !accountDeleteConfirm {
			return fmt.Errorf("account deletion is permanent; re-run with --yes to confirm")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.requireAuth(); err != nil {
			return err
		}
		if err := app.auth.DeleteAccount(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Account deleted.")
		return nil
	},
}

func init() {
	accountPasswordCmd.Flags().StringVar(&accountCurrentPassword, "current", "", "current password")
	accountPasswordCmd.Flags().StringVar(&accountNewPassword, "new", "", "new password (min 8 characters)")
	accountDeleteCmd.Flags().BoolVar(&accountDeleteConfirm, "yes", false, "confirm permanent deletion")
	accountCmd.AddCommand(accountPasswordCmd, accountDeleteCmd)
	rootCmd.AddCommand(accountCmd)
}
