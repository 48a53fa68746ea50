package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/addressbook/internal/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every contact to a JSONL file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("%w: --out is required", errUsage)
			}
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				n, err := b.ExportJSONL(ctx, out)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contact(s) to %s\n", n, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "destination JSONL file")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add contacts from a JSONL file",
		Long:  "import adds each valid line of the file. Invalid lines and names that\nalready exist are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("%w: --in is required", errUsage)
			}
			return a.withSession(cmd, func(ctx context.Context, b *sqlite.Backend) error {
				added, skipped, err := b.ImportJSONL(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contact(s), skipped %d\n", added, skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "source JSONL file")
	return cmd
}
