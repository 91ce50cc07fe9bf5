package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"shelf/internal/platform/crypto"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Signs a token with SHELF_JWT_SECRET. The API requires one on every
write request when that secret is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settings == nil {
			return errors.New("config not loaded")
		}
		ttl := settings.TokenTTL
		if cmd.Flags().Changed("ttl") {
			ttl = tokenTTL
		}
		tok, err := crypto.GenerateToken(settings.JWTSecret, tokenSubject, ttl)
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, map[string]any{
				"token":      tok,
				"subject":    tokenSubject,
				"expires_in": int(ttl.Seconds()),
			})
		}
		cmd.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "lifetime, defaults to TOKEN_TTL")
	rootCmd.AddCommand(tokenCmd)
}
