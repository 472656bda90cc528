package cli

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pandeptwidyaop/linkprefs/internal/client"
	"github.com/pandeptwidyaop/linkprefs/internal/config"
	"github.com/pandeptwidyaop/linkprefs/internal/db"
	"github.com/pandeptwidyaop/linkprefs/internal/linkpreview"
	"github.com/pandeptwidyaop/linkprefs/internal/preferences"
	"github.com/pandeptwidyaop/linkprefs/pkg/logger"
)

// backend is where the CLI reads and writes preferences: the local
// database or a remote server.
type backend struct {
	userID string
	saver  preferences.Saver
	source preferences.Source
	remote *client.RemoteStore // nil for local
	tr     linkpreview.Translator
	close  func()
}

func openBackend(cfg *config.Config, remote bool, userID, dbLogLevel string) (*backend, error) {
	if userID == "" {
		userID = cfg.Client.UserID
	}
	if userID == "" {
		return nil, fmt.Errorf("a user is required: pass --user or set client.user_id")
	}

	tr := linkpreview.NewTranslator(cfg.Previews.Language)

	if remote {
		rs := client.NewRemoteStore(client.Config{
			ServerURL: cfg.Client.ServerURL,
			Token:     cfg.Client.Token,
			Timeout:   cfg.Client.Timeout,
		})
		return &backend{userID: userID, saver: rs, source: rs, remote: rs, tr: tr, close: func() {}}, nil
	}

	database, err := openDatabase(cfg, dbLogLevel)
	if err != nil {
		return nil, err
	}
	store := preferences.NewStore(database)

	return &backend{
		userID: userID,
		saver:  store,
		source: store,
		tr:     tr,
		close: func() {
			closeDatabase(database)
		},
	}, nil
}

func openDatabase(cfg *config.Config, logLevel string) (*gorm.DB, error) {
	logger.DebugEvent().
		Str("driver", cfg.Database.Driver).
		Str("database", cfg.Database.Database).
		Msg("Connecting to database")

	database, err := db.Connect(db.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Database,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: logLevel,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, nil
}

func closeDatabase(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
