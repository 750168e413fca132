package accounts

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/pkg/models"
)

var (
	listTerm    string
	listExclude string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active accounts",
	Long: `List accounts whose avatar name contains a term, excluding names that
match the exclude term. Pending accounts are never listed.

Examples:
  # List every active account
  gridacct accounts list

  # List accounts matching "smith", skipping test avatars
  gridacct accounts list --term smith --exclude test

  # List as JSON
  gridacct accounts list -o json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listTerm, "term", "", "Only accounts whose name contains this term")
	listCmd.Flags().StringVar(&listExclude, "exclude", "", "Skip accounts whose name contains this term")
}

// AccountList is a list of accounts for table rendering.
type AccountList []*models.Account

// Headers implements TableRenderer.
func (al AccountList) Headers() []string {
	return []string{"PRINCIPAL ID", "NAME", "EMAIL", "LEVEL", "CREATED"}
}

// Rows implements TableRenderer.
func (al AccountList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, a := range al {
		rows = append(rows, []string{
			a.PrincipalID,
			a.Name(),
			orDash(a.Email),
			fmt.Sprintf("%d", a.UserLevel),
			a.Created.Format("2006-01-02"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	resp, err := client.ListActiveAccounts(cmd.Context(), listTerm, listExclude)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if !resp.Supported {
		return fmt.Errorf("the account directory does not support listing")
	}

	return cmdutil.PrintOutput(os.Stdout, resp.Accounts, len(resp.Accounts) == 0, "No accounts found.", AccountList(resp.Accounts))
}
