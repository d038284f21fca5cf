package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

var whoamiRemote bool

// whoamiOutput is the printable session summary.
type whoamiOutput struct {
	Authenticated bool          `json:"authenticated" yaml:"authenticated"`
	User          *session.User `json:"user,omitempty" yaml:"user,omitempty"`
	TokenSubject  string        `json:"token_subject,omitempty" yaml:"token_subject,omitempty"`
	TokenExpires  *time.Time    `json:"token_expires,omitempty" yaml:"token_expires,omitempty"`
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long: `Show the signed-in account. By default the locally stored profile is
shown; --remote fetches a fresh copy from the backend first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if whoamiRemote {
			if _, err := app.auth.Profile(cmd.Context()); err != nil {
				return err
			}
		}

		out := whoamiOutput{
			Authenticated: app.store.IsAuthenticated(),
			User:          app.store.User(),
		}
		if info, err := session.TokenInfoFromStore(app.store); err == nil {
			out.TokenSubject = info.Subject
			out.TokenExpires = &info.ExpiresAt
		} else if !errors.Is(err, session.ErrNoToken) {
			app.logger.Debug("access token not parseable", "error", err)
		}

		if !out.Authenticated {
			fmt.Println("Not signed in. Run: montanha login <email>")
			return nil
		}
		return printOutput(out)
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "fetch a fresh profile from the backend")
	rootCmd.AddCommand(whoamiCmd)
}
