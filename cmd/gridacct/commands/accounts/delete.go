package accounts

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <principal_id>",
	Short: "Delete an account",
	Long: `Delete an account and its identity mapping.

This action is irreversible. You will be prompted for confirmation
unless --force is specified.

Examples:
  # Delete with confirmation
  gridacct accounts delete 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10

  # Delete without confirmation
  gridacct accounts delete 6f1c0d2e-8c36-4c4e-9d55-2f4c1a7b9e10 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	principalID := args[0]

	client, err := cmdutil.GetClient()
	if err != nil {
		return err
	}

	return cmdutil.RunDeleteWithConfirmation(os.Stdout, "Account", principalID, deleteForce, func() error {
		if err := client.DeleteAccount(cmd.Context(), principalID); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
}
