package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// printContacts writes contacts as a table, or as a JSON array with --json.
func (a *app) printContacts(w io.Writer, contacts []types.Contact) error {
	if a.jsonMode {
		data, err := json.MarshalIndent(contacts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal contacts: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPHONE\tEMAIL\tADDRESS")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name(), c.Phone(), c.Email(), c.Home())
	}
	return tw.Flush()
}
