package accounts

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/internal/cli/output"
)

var activateCmd = &cobra.Command{
	Use:   "activate <principal_id>",
	Short: "Activate a pending account",
	Long: `Activate an account that registered while confirmation was required.

The pending marker is removed from the account name and the inventory,
credentials and appearance are provisioned. The owner is notified by email.

Examples:
  gridacct accounts activate 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

func runActivate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	result, err := client.ActivateAccount(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}

	printer, err := cmdutil.GetPrinter(os.Stdout)
	if err != nil {
		return err
	}
	if printer.Format() != output.FormatTable {
		return printer.Print(result)
	}

	for _, w := range result.Warnings {
		printer.Warning(w)
	}
	name := args[0]
	if result.Account != nil {
		name = result.Account.Name()
	}
	printer.Success(fmt.Sprintf("Account '%s' activated", name))
	return nil
}
