package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-analytics/internal/config"
	"github.com/iliyamo/event-analytics/internal/utils"
)

func newTokenCommand(cfg *config.Config) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token for POST /v1/imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := utils.NewAccessToken(cfg.JWTSecret, subject, utils.RoleAdmin, cfg.AccessTTLMin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject, used as the rate limit identity.")
	return cmd
}
