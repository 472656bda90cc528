package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pandeptwidyaop/linkprefs/internal/server/web/middleware"
)

var (
	tokenUser     string
	tokenUsername string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API token for a user",
	Long: `Mint a JWT signed with auth.jwt_secret. Use it as a Bearer token for
the API, as the auth_token cookie for the settings page, or as
client.token for remote CLI commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig("stderr")
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		token, err := auth.GenerateToken(tokenUser, tokenUsername)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "user ID the token acts for")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "optional display name")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
