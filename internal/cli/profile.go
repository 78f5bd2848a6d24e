package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile management commands",
	}

	cmd.AddCommand(newProfileRegisterCmd())
	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileDeactivateCmd())
	cmd.AddCommand(newProfileRenameCmd())
	cmd.AddCommand(newProfileCustomizeCmd())

	return cmd
}

func newProfileRegisterCmd() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			if id != "" {
				req["id"] = id
			}
			var result Profile

			if err := client.Post("/api/v1/profiles", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Profile id (generated when omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProfileList

			if err := client.Get("/api/v1/profiles", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Profile

			if err := client.Get("/api/v1/profiles/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a profile (the record is retained)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/profiles/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Profile %s deactivated", args[0]))
			return nil
		},
	}
}

func newProfileRenameCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename the logged-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			var result Profile

			if err := client.Patch("/api/v1/profile", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProfileCustomizeCmd() *cobra.Command {
	var outfit, accessory string
	var eyeScale float64

	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Change the logged-in profile's appearance",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if cmd.Flags().Changed("outfit") {
				req["outfit"] = outfit
			}
			if cmd.Flags().Changed("accessory") {
				req["accessory"] = accessory
			}
			if cmd.Flags().Changed("eye-scale") {
				req["eye_scale"] = eyeScale
			}
			if len(req) == 0 {
				return fmt.Errorf("at least one of --outfit, --accessory, --eye-scale is required")
			}

			var result Profile
			if err := client.Patch("/api/v1/profile/customization", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&outfit, "outfit", "", "Outfit name")
	cmd.Flags().StringVar(&accessory, "accessory", "", "Accessory name")
	cmd.Flags().Float64Var(&eyeScale, "eye-scale", 0, "Eye scale (clamped to the allowed range)")

	return cmd
}
