// Package commands implements the gridacct CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/cmd/gridacct/commands/accounts"
	"github.com/marmos91/gridaccounts/cmd/gridacct/commands/config"
	"github.com/marmos91/gridaccounts/cmd/gridacct/commands/mappings"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gridacct",
	Short: "gridacct - Grid account registration and identity mapping",
	Long: `gridacct runs the account registration service of a virtual-world grid
and administers it remotely.

The server links external identity-provider accounts to grid accounts,
provisions new users from configured template avatars and exposes an admin
API for mappings and pending registrations.

Use "gridacct [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cmdutil.Flags.ConfigFile, "config", "", "config file (default: $XDG_CONFIG_HOME/gridacct/config.yaml)")
	flags.StringVar(&cmdutil.Flags.ServerURL, "server", "", "API server URL for admin commands (env: GRIDACCT_SERVER, default: "+cmdutil.DefaultServerURL+")")
	flags.StringVar(&cmdutil.Flags.Token, "token", "", "admin bearer token (env: GRIDACCT_TOKEN)")
	flags.StringVarP(&cmdutil.Flags.Output, "output", "o", "table", "output format (table|json|yaml)")
	flags.BoolVar(&cmdutil.Flags.NoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(accounts.Cmd)
	rootCmd.AddCommand(mappings.Cmd)
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cmdutil.Flags.ConfigFile
}
