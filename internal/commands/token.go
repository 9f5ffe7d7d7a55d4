package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/utils"
)

func newTokenCommand(a *app) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.config(cmd)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return &ExitError{Code: 2, Err: fmt.Errorf("JWT_SECRET is not configured")}
			}
			if ttl <= 0 {
				ttl = cfg.JWTExpiryDuration
			}
			token, err := utils.GenerateJWT(subject, cfg.JWTSecret, ttl, cfg.JWTIssuer, time.Now())
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "operator name recorded with each request")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRY_DURATION)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
