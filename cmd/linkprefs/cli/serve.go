package cli

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pandeptwidyaop/linkprefs/internal/config"
	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
	"github.com/pandeptwidyaop/linkprefs/internal/server/web/api"
	"github.com/pandeptwidyaop/linkprefs/internal/version"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the linkprefs server",
	Long:  `Start the HTTP server with the preferences API and the link preview domains settings page.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServer()
	},
}

func runServer() error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	defer logger.Close()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	info := version.GetVersion()
	logger.InfoEvent().
		Str("version", info.Version).
		Str("build_date", info.BuildDate).
		Str("git_commit", info.GitCommit).
		Msg("Starting linkprefs server")

	database, err := openDatabase(cfg, "warn")
	if err != nil {
		return err
	}
	logger.InfoEvent().Str("driver", cfg.Database.Driver).Msg("Connected to database")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return serve(cfg, database, sigCh)
}

// serve runs the HTTP server until a signal arrives or the listener fails.
// The database is closed on return.
func serve(cfg *config.Config, database *gorm.DB, sigCh <-chan os.Signal) error {
	defer closeDatabase(database)

	handler := api.NewHandler(preferences.NewStore(database), cfg)
	defer handler.Close()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     stdlog.New(logger.Get(), "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoEvent().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.InfoEvent().Str("signal", sig.String()).Msg("Shutting down server")
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.ErrorEvent().Err(err).Msg("HTTP server shutdown error")
	}

	logger.InfoEvent().Msg("Server stopped")
	return nil
}
