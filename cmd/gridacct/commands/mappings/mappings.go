// Package mappings implements identity mapping commands for gridacct.
package mappings

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for identity mappings.
var Cmd = &cobra.Command{
	Use:     "mappings",
	Aliases: []string{"mapping"},
	Short:   "Identity mapping administration",
	Long: `Look up, search and edit the records that link grid accounts to the
real-world identity of their owners.

Examples:
  # Find the account linked to an external identity
  gridacct mappings get --connect-id https://idp.example.org/users/42

  # Search by external identifier
  gridacct mappings search "ConnectID https://idp.example.org/users/42"

  # Link an account to an external identity
  gridacct mappings set 6f1c... --connect-id https://idp.example.org/users/42 --first Ada --last Lovelace`,
}

func init() {
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(searchCmd)
	Cmd.AddCommand(setCmd)
}
