package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/internal/tui"
	apperrors "github.com/pandeptwidyaop/linkprefs/pkg/errors"
)

var (
	domainsRemote bool
	domainsUser   string
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Manage link preview domains interactively",
	Long: `Open the link preview domains section in a terminal UI.

Keys:
  enter   expand the section, or add the typed domain
  tab     switch between the input and the domain list
  space   enable or disable previews for the selected domain
  x       stop tracking the selected domain
  esc     save and collapse the section
  q       quit (ctrl+c from anywhere)`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// The TUI owns the terminal
		cfg, err := loadConfig("discard")
		if err != nil {
			return err
		}
		b, err := openBackend(cfg, domainsRemote, domainsUser, "silent")
		if err != nil {
			return err
		}
		defer b.close()

		return tui.Run(tui.NewModel(cmd.Context(), b.userID, b.saver, b.source, linkpreview.WithTranslator(b.tr)))
	},
}

var domainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked domains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := commandBackend()
		if err != nil {
			return err
		}
		defer b.close()

		mapping, err := b.source.GetMyPreferences(cmd.Context(), b.userID)
		if err != nil {
			return err
		}
		return printDomains(cmd.OutOrStdout(), b.tr, linkpreview.Domains(mapping))
	},
}

var domainsAddCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Track a domain with previews disabled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSectionAction(cmd.Context(), func(ctx context.Context, s *linkpreview.Section) error {
			s.SetInput(args[0])
			return s.AddDomain(ctx)
		})
	},
}

var domainsEnableCmd = &cobra.Command{
	Use:   "enable <domain>",
	Short: "Enable previews for a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle(cmd.Context(), args[0], true)
	},
}

var domainsDisableCmd = &cobra.Command{
	Use:   "disable <domain>",
	Short: "Disable previews for a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle(cmd.Context(), args[0], false)
	},
}

var domainsRemoveCmd = &cobra.Command{
	Use:   "remove <domain>",
	Short: "Stop tracking a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, ok := linkpreview.TrackedDomain(args[0])
		if !ok {
			return apperrors.ErrEmptyInput
		}
		return runSectionAction(cmd.Context(), func(ctx context.Context, s *linkpreview.Section) error {
			return s.RemoveDomain(ctx, domain)
		})
	},
}

func init() {
	domainsCmd.PersistentFlags().BoolVar(&domainsRemote, "remote", false, "use the server at client.server_url instead of the local database")
	domainsCmd.PersistentFlags().StringVarP(&domainsUser, "user", "u", "", "user ID (default client.user_id)")

	domainsCmd.AddCommand(domainsListCmd, domainsAddCmd, domainsEnableCmd, domainsDisableCmd, domainsRemoveCmd)
	rootCmd.AddCommand(domainsCmd)
}

func commandBackend() (*backend, error) {
	cfg, err := loadConfig("stderr")
	if err != nil {
		return nil, err
	}
	return openBackend(cfg, domainsRemote, domainsUser, "error")
}

func toggle(ctx context.Context, raw string, enabled bool) error {
	domain, ok := linkpreview.TrackedDomain(raw)
	if !ok {
		return apperrors.ErrEmptyInput
	}
	return runSectionAction(ctx, func(ctx context.Context, s *linkpreview.Section) error {
		return s.ToggleDomain(ctx, domain, enabled)
	})
}

// runSectionAction applies one action through a section so the command
// line follows the same rules as the interactive surfaces.
func runSectionAction(ctx context.Context, action func(context.Context, *linkpreview.Section) error) error {
	b, err := commandBackend()
	if err != nil {
		return err
	}
	defer b.close()

	section := linkpreview.NewSection(b.userID, b.saver, nil, linkpreview.WithTranslator(b.tr))
	if err := action(ctx, section); err != nil {
		if msg := section.State().ServerError; msg != "" && !errors.Is(err, apperrors.ErrEmptyInput) {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

func printDomains(w io.Writer, tr linkpreview.Translator, rows []linkpreview.DomainRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, linkpreview.Describe(tr, 0))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tPREVIEWS")
	for _, row := range rows {
		state := "disabled"
		if row.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(tw, "%s\t%s\n", row.Domain, state)
	}
	return tw.Flush()
}

