package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Costos-api/pkg/jwt"
)

func newIssueTokenCmd(e *env) *cobra.Command {
	var userID, role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Emite un token de administración para desarrollo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET es requerido")
			}
			switch role {
			case jwt.RoleAdmin, jwt.RoleShopManager:
			default:
				return fmt.Errorf("rol inválido %q (admin|shop_manager)", role)
			}
			tok, err := jwt.Generate(e.cfg.JWT.Secret, e.cfg.JWT.Issuer, userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "dev", "ID del usuario (claim user_id)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "admin | shop_manager")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "vigencia del token")
	return cmd
}
