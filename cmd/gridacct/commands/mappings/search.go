package mappings

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search mapping records",
	Long: `Search mapping records with a "<field> <value>" query. A field of
ConnectID matches the external identifier; any other field matches the
principal id. Words shorter than three characters are ignored, and a query
that does not leave exactly two words returns no records.

Examples:
  gridacct mappings search "ConnectID https://idp.example.org/users/42"
  gridacct mappings search "PrincipalID 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10" -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	records, err := client.SearchMappings(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to search mappings: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, records, len(records) == 0, "No mappings found.", MappingList(records))
}
