package cli

import (
	"github.com/spf13/cobra"
)

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Gameplay reward commands for the logged-in profile",
	}

	cmd.AddCommand(newRewardsHomeworkCmd())
	cmd.AddCommand(newRewardsGrantCmd())
	cmd.AddCommand(newRewardsSpendCmd())
	cmd.AddCommand(newRewardsHappinessCmd())
	cmd.AddCommand(newRewardsStreakCmd())

	return cmd
}

func newRewardsHomeworkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "homework",
		Short: "Record a completed homework and grant its rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Post("/api/v1/rewards/homework", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRewardsGrantCmd() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant coins",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"amount": amount}
			var result Profile

			if err := client.Post("/api/v1/rewards/coins/grant", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Coins to grant (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newRewardsSpendCmd() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "spend",
		Short: "Spend coins",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"amount": amount}
			var result Profile

			if err := client.Post("/api/v1/rewards/coins/spend", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 0, "Coins to spend (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newRewardsHappinessCmd() *cobra.Command {
	var delta float64

	cmd := &cobra.Command{
		Use:   "happiness",
		Short: "Adjust happiness by a delta",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]float64{"delta": delta}
			var result Profile

			if err := client.Post("/api/v1/rewards/happiness", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&delta, "delta", 0, "Happiness delta, positive or negative (required)")
	_ = cmd.MarkFlagRequired("delta")

	return cmd
}

func newRewardsStreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Record a daily streak day",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Post("/api/v1/rewards/streak", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
