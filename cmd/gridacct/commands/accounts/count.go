package accounts

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/internal/cli/output"
)

var countExclude string

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count active accounts",
	Long: `Print the number of active accounts. The server caches the count
for a short time, so new registrations may take a moment to show.

Examples:
  gridacct accounts count
  gridacct accounts count --exclude test`,
	RunE: runCount,
}

func init() {
	countCmd.Flags().StringVar(&countExclude, "exclude", "", "Skip accounts whose name contains this term")
}

func runCount(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	resp, err := client.CountActiveAccounts(cmd.Context(), countExclude)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if !resp.Supported {
		return fmt.Errorf("the account directory does not support counting")
	}

	printer, err := cmdutil.GetPrinter(os.Stdout)
	if err != nil {
		return err
	}
	if printer.Format() != output.FormatTable {
		return printer.Print(resp)
	}
	_, _ = fmt.Fprintln(os.Stdout, resp.Count)
	return nil
}
