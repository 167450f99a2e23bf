// Package repository defines data access interfaces for Lit Up.
// These interfaces abstract database operations, allowing for different
// implementations (DynamoDB in production, SQLite for local development,
// in-memory mocks in tests) while keeping the service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/litup/internal/domain"
)

// =============================================================================
// Song Repository
// =============================================================================

// SongRepository defines the interface for song data access.
type SongRepository interface {
	// Create creates a new song. Returns domain.ErrSongAlreadyExists if a
	// song with the same ID is already present.
	Create(ctx context.Context, song *domain.Song) error

	// GetByID retrieves a song by ID.
	GetByID(ctx context.Context, id string) (*domain.Song, error)

	// List returns all songs, newest first.
	List(ctx context.Context) ([]*domain.Song, error)

	// ListByStatus returns all songs in a given ingest state, newest first.
	ListByStatus(ctx context.Context, status domain.SongStatus) ([]*domain.Song, error)

	// Update replaces an existing song.
	Update(ctx context.Context, song *domain.Song) error

	// Delete deletes a song by ID.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Config Repository
// =============================================================================

// ConfigRepository defines the interface for stored app-config revisions.
type ConfigRepository interface {
	// Create creates a new config revision. Returns
	// domain.ErrConfigAlreadyExists if the ID is taken.
	Create(ctx context.Context, cfg *domain.StoredConfig) error

	// GetByID retrieves a config revision by ID.
	GetByID(ctx context.Context, id string) (*domain.StoredConfig, error)

	// List returns all config revisions.
	List(ctx context.Context) ([]*domain.StoredConfig, error)

	// Update replaces an existing config revision.
	Update(ctx context.Context, cfg *domain.StoredConfig) error

	// Delete deletes a config revision by ID.
	Delete(ctx context.Context, id string) error
}

// Repositories holds all repository instances.
type Repositories struct {
	Song   SongRepository
	Config ConfigRepository
}

// Health is the interface for backend health checks, satisfied by the
// database wrappers.
type Health interface {
	Ping(ctx context.Context) error
	Close() error
}
