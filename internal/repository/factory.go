// Package repository provides the data access layer for Lit Up.
// This file contains factory functions to create repositories based on configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/config"
	dynamorepo "github.com/prn-tf/litup/internal/repository/dynamodb"
	sqliterepo "github.com/prn-tf/litup/internal/repository/sqlite"
)

// Factory creates repositories based on configuration.
type Factory struct {
	cfg    config.DatabaseConfig
	logger zerolog.Logger
}

// NewFactory creates a new repository factory.
func NewFactory(cfg config.DatabaseConfig, logger zerolog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Driver returns the configured database driver.
func (f *Factory) Driver() string {
	return f.cfg.Driver
}

// IsEmbedded returns true if using an embedded database.
func (f *Factory) IsEmbedded() bool {
	return f.cfg.IsEmbedded()
}

// CreateResult contains the created repositories and the database handle
// for health checks and shutdown.
type CreateResult struct {
	Repos    *Repositories
	Database Health
}

// Create builds the repository set for the configured driver.
func (f *Factory) Create(ctx context.Context) (*CreateResult, error) {
	switch f.cfg.Driver {
	case "dynamodb":
		return f.createDynamoDB(ctx)
	case "sqlite":
		return f.createSQLite(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, f.cfg.Driver)
	}
}

func (f *Factory) createDynamoDB(ctx context.Context) (*CreateResult, error) {
	db, err := dynamorepo.NewDB(ctx, dynamorepo.Config{
		Region:          f.cfg.Region,
		MusicTable:      f.cfg.MusicTable,
		ConfigTable:     f.cfg.ConfigTable,
		Endpoint:        f.cfg.Endpoint,
		AccessKeyID:     f.cfg.AccessKeyID,
		SecretAccessKey: f.cfg.SecretAccessKey,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DynamoDB: %w", err)
	}

	f.logger.Info().
		Str("driver", "dynamodb").
		Str("region", f.cfg.Region).
		Str("music_table", f.cfg.MusicTable).
		Str("config_table", f.cfg.ConfigTable).
		Msg("database initialized")

	return &CreateResult{
		Repos: &Repositories{
			Song:   dynamorepo.NewSongRepository(db),
			Config: dynamorepo.NewConfigRepository(db),
		},
		Database: db,
	}, nil
}

func (f *Factory) createSQLite(ctx context.Context) (*CreateResult, error) {
	db, err := sqliterepo.NewDB(ctx, sqliterepo.Config{
		Path:            f.cfg.Path,
		JournalMode:     f.cfg.JournalMode,
		BusyTimeout:     f.cfg.BusyTimeout,
		SynchronousMode: f.cfg.SynchronousMode,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	f.logger.Info().
		Str("driver", "sqlite").
		Str("path", f.cfg.Path).
		Msg("database initialized")

	return &CreateResult{
		Repos: &Repositories{
			Song:   sqliterepo.NewSongRepository(db),
			Config: sqliterepo.NewConfigRepository(db),
		},
		Database: db,
	}, nil
}
