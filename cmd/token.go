package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariebrainware/comorbidity-network/middleware"
)

func tokenCommand(st *state) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an admin token for the recompute endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := middleware.IssueToken(st.cfg.JWTSecret, subject, middleware.RoleAdmin, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
