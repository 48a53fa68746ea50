package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Register --user with a password. On a terminal the password is asked twice.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.username()
			if err != nil {
				return err
			}
			pw, prompted, err := a.password(cmd, "Password: ")
			if err != nil {
				return err
			}
			if prompted {
				again, _, err := a.password(cmd, "Re-enter password: ")
				if err != nil {
					return err
				}
				if again != pw {
					return errPasswordMatch
				}
			}

			b, err := a.newBackend()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = types.WithConnection(ctx, b, user, func(s types.ContactStore) error {
				return s.RegisterUser(ctx, user, pw)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", user)
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials for --user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				contacts, err := b.Contacts(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d contacts)\n", b.CurrentUser(), len(contacts))
				return nil
			})
		},
	}
}

func newUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered usernames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				users, err := b.Users(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.jsonMode {
					data, err := json.MarshalIndent(users, "", "  ")
					if err != nil {
						return fmt.Errorf("marshal users: %w", err)
					}
					fmt.Fprintln(out, string(data))
					return nil
				}
				for _, u := range users {
					fmt.Fprintln(out, u)
				}
				return nil
			})
		},
	}
}
