package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the gridacct configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  gridacct config validate

  # Validate specific config file
  gridacct config validate --config /etc/gridacct/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if cfg.API.JWT.Secret == "" {
		warnings = append(warnings, "JWT secret not configured - admin routes will not be served")
	}
	if cfg.Registration.ConfirmationRequired && cfg.Registration.AdminEmail == "" {
		warnings = append(warnings, "Confirmation required but no admin_email - nobody is told about pending accounts")
	}
	if len(cfg.Registration.DefaultAvatars) == 0 {
		warnings = append(warnings, "No default avatars configured - new accounts get no appearance")
	}
	if cfg.Mapping.StorageProvider == "memory" {
		warnings = append(warnings, "Mapping store is in memory - mappings are lost on restart")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Database type:     %s\n", cfg.Database.Type)
	_, _ = fmt.Fprintf(out, "  Mapping provider:  %s\n", cfg.Mapping.StorageProvider)
	_, _ = fmt.Fprintf(out, "  Mapping realm:     %s\n", cfg.Mapping.Realm)
	_, _ = fmt.Fprintf(out, "  Notify driver:     %s\n", cfg.Notify.Driver)
	_, _ = fmt.Fprintf(out, "  API port:          %d\n", cfg.API.Port)
	_, _ = fmt.Fprintf(out, "  Log level:         %s\n", cfg.Logging.Level)

	return nil
}
