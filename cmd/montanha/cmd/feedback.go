package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/service"
)

var feedbackInput service.FeedbackInput

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Send feedback about the mountain or the platform",
}

var feedbackSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a feedback entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.feedback.Submit(cmd.Context(), feedbackInput); err != nil {
			return err
		}
		fmt.Println("Thank you for your feedback.")
		return nil
	},
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted feedback (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		entries, err := app.feedback.List(cmd.Context())
		if err != nil {
			return err
		}
		return printOutput(entries)
	},
}

func init() {
	feedbackSendCmd.Flags().StringVar(&feedbackInput.Subject, "subject", "", "short subject line")
	feedbackSendCmd.Flags().StringVar(&feedbackInput.Message, "message", "", "feedback text")
	feedbackSendCmd.Flags().IntVar(&feedbackInput.Rating, "rating", 0, "rating from 1 to 5")
	feedbackCmd.AddCommand(feedbackSendCmd, feedbackListCmd)
	rootCmd.AddCommand(feedbackCmd)
}
