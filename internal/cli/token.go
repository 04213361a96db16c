package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	jwtPkg "ComputexChatbot/pkg/jwt"

	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Print a bearer token for the session cleanup endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("ADMIN_JWT_SECRET")
		if secret == "" {
			return errors.New("ADMIN_JWT_SECRET is not set")
		}

		token, expiresAt, err := jwtPkg.SignAdmin(secret, tokenSubject, tokenTTL)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "ops", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	RootCmd.AddCommand(tokenCmd)
}
