package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bookhive/api/internal/infrastructure/config"
	"github.com/bookhive/api/internal/infrastructure/db/sqldb"
	"github.com/bookhive/api/pkg/logger"
)

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	log := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		Pretty:     cfg.IsDevelopment(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	return cfg, log, nil
}

// openDatabase connects to the relational store and migrates the schema.
func openDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := sqldb.Open(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := sqldb.AutoMigrate(db); err != nil {
		_ = sqldb.Close(db)
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Str("db_type", cfg.Database.Type).Msg("database migrations completed")
	return db, nil
}
