package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-agent/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the REST API",
	Long:  "Sign a token with server.auth-secret. The token is accepted by every endpoint except /health.",
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Token subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadApp()
	if err != nil {
		return err
	}
	token, err := issueToken(cfg.Server.AuthSecret, cfg.Server.TokenTTL, tokenSubject)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

func issueToken(secret string, ttl time.Duration, subject string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("server.auth-secret is not configured (set JWT_SECRET)")
	}
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	return server.NewJWTService(secret, ttl).GenerateToken(subject)
}
