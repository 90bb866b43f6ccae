package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Password reset commands",
	}

	cmd.AddCommand(newResetRequestCmd())
	cmd.AddCommand(newResetCheckCmd())
	cmd.AddCommand(newResetCompleteCmd())

	return cmd
}

func resetPath(token string) string {
	return "/api/v1/password-resets/" + url.PathEscape(token)
}

func newResetRequestCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Send a password reset link",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"identity": email}
			var result Message

			if err := client.Post(cmd.Context(), "/api/v1/password-resets", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newResetCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check TOKEN",
		Short: "Check whether a reset token is still valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ResetToken

			if err := client.Get(cmd.Context(), resetPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newResetCompleteCmd() *cobra.Command {
	var pass, confirm string

	cmd := &cobra.Command{
		Use:   "complete TOKEN",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = pass
			}

			req := map[string]string{
				"password":         pass,
				"confirm_password": confirm,
			}
			var result Account

			if err := client.Post(cmd.Context(), resetPath(args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Password reset. Please log in again.")
			return nil
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "New password (required)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "Password confirmation (defaults to --pass)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
