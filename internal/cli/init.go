package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize addressbook storage",
		Long:  "Create the configuration and data directories, write a default config.yaml\nand apply the database schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.storeConfig()
			if err != nil {
				return err
			}
			// Persist only an explicit --data-dir; the default stays CWD-relative.
			written, err := writeConfigIfMissing(a.configDir, a.dataDirFlag(cfg.DataDir))
			if err != nil {
				return err
			}

			b, err := a.newBackend()
			if err != nil {
				return err
			}
			if err := b.Initialize(cmd.Context()); err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Address book initialized")
			if written {
				fmt.Fprintln(out, "  config:", a.configDir, "(created)")
			} else {
				fmt.Fprintln(out, "  config:", a.configDir)
			}
			fmt.Fprintln(out, "  data:  ", cfg.DataDir)
			return nil
		},
	}
}

// dataDirFlag returns resolved when --data-dir was given, else "".
func (a *app) dataDirFlag(resolved string) string {
	if a.dataDir == "" {
		return ""
	}
	return resolved
}
