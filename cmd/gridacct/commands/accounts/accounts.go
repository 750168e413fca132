// Package accounts implements account administration commands for gridacct.
package accounts

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for account administration.
var Cmd = &cobra.Command{
	Use:     "accounts",
	Aliases: []string{"account"},
	Short:   "Account administration",
	Long: `Inspect, activate and delete grid accounts on the gridacct server.

These operations use the admin API and require a token
(see 'gridacct token').

Examples:
  # Show an account with its identity mapping
  gridacct accounts get 6f1c...

  # Activate a pending registration
  gridacct accounts activate 6f1c...

  # List active accounts whose name contains "smith"
  gridacct accounts list --term smith

  # Count active accounts
  gridacct accounts count

  # Delete an account and its mapping
  gridacct accounts delete 6f1c... --force`,
}

func init() {
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(countCmd)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
