package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the Montanha Viva platform",
	Long: `Sign in with your account email. The password is taken from the
--password flag, the MONTANHA_PASSWORD environment variable, or read from
standard input, in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		password := loginPassword
		if password == "" {
			password = os.Getenv("MONTANHA_PASSWORD")
		}
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		user, err := app.auth.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("Signed in.")
			return nil
		}
		fmt.Printf("Signed in as %s (%d points).\n", user.Email, user.Points)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prefer MONTANHA_PASSWORD or stdin)")
	rootCmd.AddCommand(loginCmd)
}
