package accounts

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/pkg/models"
)

var getCmd = &cobra.Command{
	Use:   "get <principal_id>",
	Short: "Get account details",
	Long: `Get an account together with the real-world identity mapped to it.

Mapping fields are shown as "-" when the account has no mapping.

Examples:
  # Get account details as table
  gridacct accounts get 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10

  # Get as JSON
  gridacct accounts get 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// AccountDetail renders a single account as field/value rows.
type AccountDetail struct {
	*models.AccountWithMapping
}

// Headers implements TableRenderer.
func (d AccountDetail) Headers() []string {
	return []string{"FIELD", "VALUE"}
}

// Rows implements TableRenderer.
func (d AccountDetail) Rows() [][]string {
	a := d.AccountWithMapping
	return [][]string{
		{"Principal ID", a.PrincipalID},
		{"Scope ID", a.ScopeID},
		{"Name", a.Name()},
		{"Email", orDash(a.Email)},
		{"User level", strconv.Itoa(a.UserLevel)},
		{"Created", a.Created.Format("2006-01-02 15:04:05")},
		{"Connect ID", orDash(a.ConnectID)},
		{"Real name", orDash(joinName(a.RealFirstName, a.RealLastName))},
		{"Institution", orDash(a.Institution)},
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	account, err := client.GetAccount(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, account, false, "", AccountDetail{account})
}
