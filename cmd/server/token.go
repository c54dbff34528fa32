package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-relay/internal/app"
	"github.com/vovakirdan/wirechat-relay/internal/auth"
)

var tokenSubject string

// tokenCmd mints a bearer token for the admin API.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin API token",
	Long:  "Sign a JWT with admin_jwt_secret from the config so operators can call /api/* endpoints.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		jwtCfg := app.JWTConfig(cfg)
		if !jwtCfg.Enabled() {
			return errors.New("admin_jwt_secret is not set; the admin API is open")
		}

		token, err := auth.GenerateToken(jwtCfg, tokenSubject)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Subject claim for the token")
}
