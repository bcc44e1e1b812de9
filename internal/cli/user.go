package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.PersistentFlags().String("db", "", "sqlite database path (defaults to database.path from config)")
	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userResetPasswordCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Long:  "Create an account. Without --password-prompt a temporary password is generated and must be changed after the first login.",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			prompt, _ := cmd.Flags().GetBool("password-prompt")

			password := ""
			if prompt {
				entered, err := promptNewPassword(os.Stdin, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = entered
			}

			database, repos, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			return runUserAdd(cmd.Context(), services.NewAccountService(repos.Users), cmd.OutOrStdout(), email, role, password)
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("role", models.RoleOwner, "account role (owner or partner)")
	cmd.Flags().Bool("password-prompt", false, "ask for the password instead of generating one")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func userResetPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace an account password with a temporary one",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")

			database, repos, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close(database)

			return runResetPassword(cmd.Context(), services.NewAccountService(repos.Users), cmd.OutOrStdout(), email)
		},
	}
	cmd.Flags().String("email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runUserAdd(ctx context.Context, accounts *services.AccountService, out io.Writer, email string, role string, password string) error {
	user, temporary, err := accounts.CreateAccount(ctx, email, role, password)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	fmt.Fprintf(out, "%s Created %s account %s\n", color.New(color.FgGreen).Sprint("✓"), user.Role, user.Email)
	if temporary != "" {
		fmt.Fprintf(out, "  Temporary password: %s\n", color.New(color.Bold).Sprint(temporary))
		fmt.Fprintln(out, "  The password must be changed after the first login.")
	}
	return nil
}

func runResetPassword(ctx context.Context, accounts *services.AccountService, out io.Writer, email string) error {
	temporary, err := accounts.ResetPassword(ctx, email)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(out, "%s Password reset\n", color.New(color.FgGreen).Sprint("✓"))
	fmt.Fprintf(out, "  Temporary password: %s\n", color.New(color.Bold).Sprint(temporary))
	fmt.Fprintln(out, "  The password must be changed after the next login.")
	return nil
}
