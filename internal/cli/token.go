package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/incidentops/auth"
	"github.com/jonwraymond/incidentops/config"
	"github.com/jonwraymond/incidentops/secret"
)

// NewTokenCmd creates the 'token' command.
func NewTokenCmd() *cobra.Command {
	var (
		roles []string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token SUBJECT",
		Short: "Mint an operator JWT signed with INCIDENTOPS_AUTH_JWT_SECRET",
		Example: `  incidentops token alice --role viewer --ttl 8h
  incidentops token desk-3 --role operator`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Resolve(cmd.Context(), secret.NewDefaultResolver()); err != nil {
				return err
			}
			tok, err := auth.IssueToken([]byte(cfg.Auth.JWTSecret), auth.TokenRequest{
				Subject:  args[0],
				Roles:    roles,
				Issuer:   cfg.Auth.JWTIssuer,
				Audience: cfg.Auth.JWTAudience,
				TTL:      ttl,
			}, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&roles, "role", []string{auth.RoleOperator}, "Roles to grant (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime; 0 for no expiry")
	return cmd
}
