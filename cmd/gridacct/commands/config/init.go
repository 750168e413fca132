package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file.

The file uses the in-memory mapping store, a local SQLite account database
and a randomly generated JWT secret for the admin API.

Examples:
  # Write to the default location
  gridacct config init

  # Write to a specific path, replacing an existing file
  gridacct config init --config ./gridacct.yaml --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cmdutil.Flags.ConfigFile
	if path == "" {
		var err error
		if path, err = config.InitConfig(initForce); err != nil {
			return err
		}
	} else if err := config.InitConfigToPath(path, initForce); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration written to %s\n", path)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintf(out, "  gridacct config validate --config %s\n", path)
	_, _ = fmt.Fprintf(out, "  gridacct start --config %s\n", path)
	return nil
}
