// Package config implements configuration commands for gridacct.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for configuration management.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Create, inspect and validate the gridacct configuration file.

Examples:
  # Write a default config with a fresh JWT secret
  gridacct config init

  # Validate the config file
  gridacct config validate --config /etc/gridacct/config.yaml

  # Show the effective configuration with defaults applied
  gridacct config show -o yaml

  # Generate a JSON schema for editor completion
  gridacct config schema --file config.schema.json`,
}

func init() {
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(schemaCmd)
}
