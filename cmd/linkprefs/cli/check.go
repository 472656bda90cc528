package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
)

var (
	checkRemote bool
	checkUser   string
)

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Report whether a link would get a preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig("stderr")
		if err != nil {
			return err
		}
		b, err := openBackend(cfg, checkRemote, checkUser, "error")
		if err != nil {
			return err
		}
		defer b.close()

		var decision linkpreview.Decision
		if b.remote != nil {
			check, err := b.remote.CheckPreview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			decision = linkpreview.Decision{Allowed: check.Allowed, MatchedDomain: check.MatchedDomain}
		} else {
			mapping, err := b.source.GetMyPreferences(cmd.Context(), b.userID)
			if err != nil {
				return err
			}
			decision = linkpreview.PreviewAllowed(mapping, args[0], cfg.Previews.DefaultEnabled)
		}

		verdict := "allowed"
		if !decision.Allowed {
			verdict = "blocked"
		}
		reason := "default"
		if decision.MatchedDomain != "" {
			reason = "matched " + decision.MatchedDomain
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: preview %s (%s)\n", args[0], verdict, reason)
		return err
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "ask the server at client.server_url")
	checkCmd.Flags().StringVarP(&checkUser, "user", "u", "", "user ID (default client.user_id)")
	rootCmd.AddCommand(checkCmd)
}
