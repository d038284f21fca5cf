package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/service"
)

var (
	registerName     string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		user, err := app.auth.Register(cmd.Context(), service.RegisterRequest{
			Name:     registerName,
			Email:    args[0],
			Password: registerPassword,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Account %s created. Sign in with: montanha login %s\n", user.Email, user.Email)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (min 8 characters)")
	rootCmd.AddCommand(registerCmd)
}
