package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/internal/cli/output"
	"github.com/marmos91/gridaccounts/pkg/config"
)

var showSecrets bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration after defaults and environment overrides
are applied. Secrets are masked unless --secrets is given.

Examples:
  # Show as YAML (table output falls back to YAML)
  gridacct config show

  # Show as JSON including secrets
  gridacct config show -o json --secrets`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showSecrets, "secrets", false, "Print secrets in clear text")
}

const masked = "********"

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(cmdutil.Flags.ConfigFile)
	if err != nil {
		return err
	}

	if !showSecrets {
		maskSecrets(cfg)
	}

	format, err := output.ParseFormat(cmdutil.Flags.Output)
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}

func maskSecrets(cfg *config.Config) {
	for _, s := range []*string{
		&cfg.API.JWT.Secret,
		&cfg.Database.Postgres.Password,
		&cfg.Notify.SMTP.Password,
		&cfg.Notify.Redis.Password,
	} {
		if *s != "" {
			*s = masked
		}
	}
}
