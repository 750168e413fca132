package mappings

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/pkg/apiclient"
)

var setReq apiclient.StoreMappingRequest

var setCmd = &cobra.Command{
	Use:   "set <principal_id>",
	Short: "Create or replace a mapping record",
	Long: `Create or replace the mapping record of an account. Omitted fields
are stored empty.

Examples:
  gridacct mappings set 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10 \
    --connect-id https://idp.example.org/users/42 \
    --first Ada --last Lovelace --institution "Example University"`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setReq.ConnectID, "connect-id", "", "External federated identifier")
	setCmd.Flags().StringVar(&setReq.RealFirstName, "first", "", "Real first name of the owner")
	setCmd.Flags().StringVar(&setReq.RealLastName, "last", "", "Real last name of the owner")
	setCmd.Flags().StringVar(&setReq.Institution, "institution", "", "Institution of the owner")
}

func runSet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	record, err := client.StoreMapping(cmd.Context(), args[0], setReq)
	if err != nil {
		return fmt.Errorf("failed to store mapping: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, record, false, "", MappingList{record})
}
