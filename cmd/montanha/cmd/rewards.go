package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Browse and redeem point rewards",
}

var rewardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the reward catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		rewards, err := app.rewards.List(cmd.Context())
		if err != nil {
			return err
		}
		return printOutput(rewards)
	},
}

var rewardsRedeemCmd = &cobra.Command{
	Use:   "redeem <id>",
	Short: "Spend points on a reward",
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
		redemption, err := app.rewards.Redeem(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Redeemed. %d points remaining.\n", redemption.RemainingPoints)
		if redemption.VoucherCode != "" {
			fmt.Printf("Voucher code: %s\n", redemption.VoucherCode)
		}
		return nil
	},
}

func init() {
	rewardsCmd.AddCommand(rewardsListCmd, rewardsRedeemCmd)
	rootCmd.AddCommand(rewardsCmd)
}
