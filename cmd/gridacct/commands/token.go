package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/cmd/gridacct/cmdutil"
	"github.com/marmos91/gridaccounts/internal/cli/output"
	"github.com/marmos91/gridaccounts/pkg/api/auth"
	"github.com/marmos91/gridaccounts/pkg/config"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin API token",
	Long: `Mint an admin bearer token signed with api.jwt.secret from the
configuration file. The token is printed on stdout.

Examples:
  # Mint a token for the default lifetime (api.jwt.token_duration)
  gridacct token --subject alice

  # Use it for admin commands
  export GRIDACCT_TOKEN=$(gridacct token --subject alice)
  gridacct mappings search "ConnectID alice@idp.example.com"`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "operator name recorded in the token (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: api.jwt.token_duration)")
	_ = tokenCmd.MarkFlagRequired("subject")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if cfg.API.JWT.Secret == "" {
		return errors.New("api.jwt.secret is not configured; run 'gridacct config init' or set GRIDACCT_API_JWT_SECRET")
	}

	svc, err := auth.NewJWTService(cfg.API.JWT)
	if err != nil {
		return err
	}

	token, expires, err := svc.GenerateToken(tokenSubject, auth.RoleAdmin, tokenTTL)
	if err != nil {
		return err
	}

	printer, err := cmdutil.GetPrinter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	}
	return printer.Print(struct {
		Token     string    `json:"token" yaml:"token"`
		Subject   string    `json:"subject" yaml:"subject"`
		ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
	}{token, tokenSubject, expires})
}
