package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"user-dashboard/internal/app"
	"user-dashboard/internal/core/auth"
)

func newTokenCmd(e *env) *cobra.Command {
	var (
		uid  string
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for the /admin/v1 endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			j := app.NewJWTer(e.cfg)
			if ttl > 0 {
				j.TTL = ttl
			}
			tok, err := j.Issue(uid, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "operator", "subject of the token")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default jwt.accessTokenTTLMin)")
	return cmd
}
