package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pandeptwidyaop/linkprefs/internal/config"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "linkprefs",
	Short: "Per-user link preview domain settings",
	Long: `linkprefs stores per-user preferences and manages which domains
get link previews. It serves an HTTP API and settings page, and offers
a terminal UI and scriptable commands against a local database or a
remote server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./config.yaml or ~/.linkprefs/config.yaml)")
}

// loadConfig loads configuration and sets up the logger. A non-empty
// output overrides the configured log output.
func loadConfig(output string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
		File:   cfg.Logging.File,
	}
	if output != "" && logCfg.Output != "file" {
		logCfg.Output = output
	}
	if err := logger.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return cfg, nil
}
