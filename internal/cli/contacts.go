package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// contactFlags holds the per-field flags shared by add and edit.
type contactFlags struct {
	first, last  string
	phone, email string
	home         types.Home
}

func (f *contactFlags) bindName(fs *pflag.FlagSet) {
	fs.StringVar(&f.first, "first", "", "first name")
	fs.StringVar(&f.last, "last", "", "last name")
}

func (f *contactFlags) bindDetails(fs *pflag.FlagSet) {
	fs.StringVar(&f.phone, "phone", "", "ten-digit phone number")
	fs.StringVar(&f.email, "email", "", "e-mail address")
	fs.StringVar(&f.home.Street, "street", "", "street")
	fs.StringVar(&f.home.City, "city", "", "city")
	fs.StringVar(&f.home.State, "state", "", "state")
	fs.StringVar(&f.home.Zip, "zip", "", "zip code (12345 or 12345-6789)")
}

// nameOnly builds the lookup key used by edit and delete.
func (f *contactFlags) nameOnly() (types.Contact, error) {
	return types.NewContact(f.first, f.last, "", "", types.Home{})
}

func newAddCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Example: `  addressbook add -u alice --first Spenser --last Mason --phone 8139570260 \
    --email mason11@mail.usf.edu --street "4202 E Fowler Ave" --city Tampa --state FL --zip 33620`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := types.NewContact(f.first, f.last, f.phone, f.email, f.home)
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				added, err := b.AddContact(ctx, c)
				if err != nil {
					return err
				}
				if !added {
					return fmt.Errorf("%w: %s", errContactExists, c.Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", c.Name())
				return nil
			})
		},
	}
	f.bindName(cmd.Flags())
	f.bindDetails(cmd.Flags())
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		f                 contactFlags
		newFirst, newLast string
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit every contact with the given name",
		Long:  "edit selects contacts by --first and --last. Only the flags you pass change;\nthe other fields keep their stored values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := f.nameOnly()
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				existing, err := findByName(ctx, b, key)
				if err != nil {
					return err
				}

				fl := cmd.Flags()
				pick := func(name, value, current string) string {
					if fl.Changed(name) {
						return value
					}
					return current
				}
				h := existing.Home()
				updated, err := types.NewContact(
					pick("new-first", newFirst, existing.FirstName()),
					pick("new-last", newLast, existing.LastName()),
					pick("phone", f.phone, existing.Phone()),
					pick("email", f.email, existing.Email()),
					types.Home{
						Street: pick("street", f.home.Street, h.Street),
						City:   pick("city", f.home.City, h.City),
						State:  pick("state", f.home.State, h.State),
						Zip:    pick("zip", f.home.Zip, h.Zip),
					},
				)
				if err != nil {
					return err
				}

				n, err := b.EditContact(ctx, key, updated)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d contact(s)\n", n)
				return nil
			})
		},
	}
	f.bindName(cmd.Flags())
	f.bindDetails(cmd.Flags())
	cmd.Flags().StringVar(&newFirst, "new-first", "", "replacement first name")
	cmd.Flags().StringVar(&newLast, "new-last", "", "replacement last name")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var f contactFlags
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete every contact with the given name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := f.nameOnly()
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				n, err := b.DeleteContact(ctx, key)
				if err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("%w: %s", errContactNotFound, key.Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d contact(s)\n", n)
				return nil
			})
		},
	}
	f.bindName(cmd.Flags())
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find contacts where any field contains term",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: search takes exactly one term", errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				found, err := b.Search(ctx, args[0])
				if err != nil {
					return err
				}
				return a.printContacts(cmd.OutOrStdout(), found)
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				all, err := b.Contacts(ctx)
				if err != nil {
					return err
				}
				return a.printContacts(cmd.OutOrStdout(), all)
			})
		},
	}
}

// findByName returns the first stored contact named like key.
func findByName(ctx context.Context, s types.ContactStore, key types.Contact) (types.Contact, error) {
	all, err := s.Contacts(ctx)
	if err != nil {
		return types.Contact{}, err
	}
	for _, c := range all {
		if c.SameName(key) {
			return c, nil
		}
	}
	return types.Contact{}, fmt.Errorf("%w: %s", errContactNotFound, key.Name())
}
