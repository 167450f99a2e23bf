package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prn-tf/litup/internal/domain"
)

// configRepository implements repository.ConfigRepository for SQLite.
// The config document is stored as a JSON string.
type configRepository struct {
	db *DB
}

// NewConfigRepository creates a SQLite config repository.
func NewConfigRepository(db *DB) *configRepository {
	return &configRepository{db: db}
}

// Create creates a new config revision.
func (r *configRepository) Create(ctx context.Context, cfg *domain.StoredConfig) error {
	doc, err := json.Marshal(cfg.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config document: %w", err)
	}

	query := `INSERT INTO configs (id, config, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		cfg.ID,
		string(doc),
		cfg.CreatedAt.Format(time.RFC3339Nano),
		cfg.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConfigAlreadyExists
		}
		return fmt.Errorf("failed to create config: %w", err)
	}
	return nil
}

// GetByID retrieves a config revision by ID.
func (r *configRepository) GetByID(ctx context.Context, id string) (*domain.StoredConfig, error) {
	query := `SELECT id, config, created_at, updated_at FROM configs WHERE id = ?`

	var cfg domain.StoredConfig
	var doc, createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&cfg.ID, &doc, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return hydrateConfig(&cfg, doc, createdAt, updatedAt)
}

// List returns all config revisions.
func (r *configRepository) List(ctx context.Context) ([]*domain.StoredConfig, error) {
	query := `SELECT id, config, created_at, updated_at FROM configs ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}
	defer rows.Close()

	var configs []*domain.StoredConfig
	for rows.Next() {
		var cfg domain.StoredConfig
		var doc, createdAt, updatedAt string
		if err := rows.Scan(&cfg.ID, &doc, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}
		hydrated, err := hydrateConfig(&cfg, doc, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		configs = append(configs, hydrated)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate configs: %w", err)
	}
	return configs, nil
}

// Update replaces an existing config revision.
func (r *configRepository) Update(ctx context.Context, cfg *domain.StoredConfig) error {
	doc, err := json.Marshal(cfg.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config document: %w", err)
	}

	query := `UPDATE configs SET config = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		string(doc),
		cfg.UpdatedAt.Format(time.RFC3339Nano),
		cfg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

// Delete deletes a config revision by ID.
func (r *configRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

// hydrateConfig parses the stored document and timestamps.
func hydrateConfig(cfg *domain.StoredConfig, doc, createdAt, updatedAt string) (*domain.StoredConfig, error) {
	if err := json.Unmarshal([]byte(doc), &cfg.Config); err != nil {
		return nil, fmt.Errorf("config %s: bad document: %w", cfg.ID, err)
	}
	var err error
	if cfg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("config %s: bad created_at: %w", cfg.ID, err)
	}
	if cfg.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("config %s: bad updated_at: %w", cfg.ID, err)
	}
	return cfg, nil
}
