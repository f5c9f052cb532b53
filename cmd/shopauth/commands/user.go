package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/you/shopauth/domain"
)

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Args:  cobra.NoArgs,
		Short: "Operator actions on accounts",
	}

	cmd.AddCommand(
		newUserAdminCommand(opts),
		newUserStatusCommand(opts),
	)
	return cmd
}

func newUserAdminCommand(opts *rootOptions) *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "admin <email>",
		Args:  cobra.ExactArgs(1),
		Short: "Grant (or with --revoke, remove) admin privileges",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			user, err := c.AccountSvc.SetAdmin(cmd.Context(), args[0], !revoke)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", user.Email, user.IsAdmin)
			return nil
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove admin privileges instead of granting them")
	return cmd
}

func newUserStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "status <email> <active|suspended|deleted>",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.StatusActive), string(domain.StatusSuspended), string(domain.StatusDeleted)},
		Short:     "Change an account status; leaving active signs the user out everywhere",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			user, revoked, err := c.AccountSvc.SetStatus(cmd.Context(), args[0], domain.AccountStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s status=%s revoked_sessions=%d\n", user.Email, user.Status, revoked)
			return nil
		},
	}
}
