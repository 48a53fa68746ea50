package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/addressbook/internal/tui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal form interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.newBackend()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), b, a.log)
		},
	}
}
