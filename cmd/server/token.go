package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"domainverse/internal/auth"
)

// tokenCommand constructs the 'token' subcommand that mints an HS256 JWT for
// the edit endpoints using the configured secret
func tokenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates a JWT for the given subject and role",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			if !a.cfg.EditsProtected() {
				return errors.New("auth.secret is not configured")
			}
			if ttl <= 0 {
				ttl = a.cfg.Auth.TokenTTL
			}

			tokens, err := auth.NewTokenManager(a.cfg.Auth.Secret, ttl)
			if err != nil {
				return err
			}
			signed, err := tokens.GenerateToken(subject, role)
			if err != nil {
				return fmt.Errorf("could not sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed) //nolint: forbidigo
			return nil
		},
	}

	cmd.Flags().String("subject", "", "Token subject (e.g., user name)")
	cmd.Flags().String("role", auth.RoleEditor, "Token role (editor or viewer)")
	cmd.Flags().Duration("ttl", 0, "Token TTL (default auth.tokenTTL)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
