package cli

import (
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionLoginCmd())
	cmd.AddCommand(newSessionLogoutCmd())
	cmd.AddCommand(newSessionMeCmd())

	return cmd
}

func newSessionLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <id>",
		Short: "Log a profile in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"id": args[0]}
			var result Profile

			if err := client.Post("/api/v1/session/login", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log the current profile out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/session/logout", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newSessionMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get("/api/v1/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
