package mappings

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/pkg/models"
)

var (
	getConnectID   string
	getPrincipalID string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a mapping record",
	Long: `Get the mapping record of an account or of an external identity.
Exactly one of --connect-id and --principal-id must be given.

Examples:
  gridacct mappings get --connect-id https://idp.example.org/users/42
  gridacct mappings get --principal-id 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10 -o json`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getConnectID, "connect-id", "", "External federated identifier")
	getCmd.Flags().StringVar(&getPrincipalID, "principal-id", "", "Grid account id")
}

func runGet(cmd *cobra.Command, args []string) error {
	if (getConnectID == "") == (getPrincipalID == "") {
		return errors.New("exactly one of --connect-id or --principal-id is required")
	}

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	var record *models.MappingRecord
	if getConnectID != "" {
		record, err = client.GetMappingByConnectID(cmd.Context(), getConnectID)
	} else {
		record, err = client.GetMappingByPrincipalID(cmd.Context(), getPrincipalID)
	}
	if err != nil {
		return fmt.Errorf("failed to get mapping: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, record, false, "", MappingList{record})
}
