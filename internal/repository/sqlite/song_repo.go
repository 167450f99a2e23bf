package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prn-tf/litup/internal/domain"
)

// songColumns is the select list shared by all song queries.
const songColumns = `id, audio_origin_url, audio_url, length, length_seconds,
	artist, title, album_art_origin_url, album_art_url, is_secret, status,
	created_at, updated_at`

// songRepository implements repository.SongRepository for SQLite.
type songRepository struct {
	db *DB
}

// NewSongRepository creates a SQLite song repository.
func NewSongRepository(db *DB) *songRepository {
	return &songRepository{db: db}
}

// Create creates a new song.
func (r *songRepository) Create(ctx context.Context, song *domain.Song) error {
	query := `
		INSERT INTO songs (` + songColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		song.ID,
		song.AudioOriginURL,
		song.AudioURL,
		song.Length,
		song.LengthSeconds,
		song.Artist,
		song.Title,
		song.AlbumArtOriginURL,
		song.AlbumArtURL,
		boolToInt(song.IsSecret),
		string(song.Status),
		song.CreatedAt.Format(time.RFC3339Nano),
		song.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSongAlreadyExists
		}
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

// GetByID retrieves a song by ID.
func (r *songRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`
	return r.scanSong(r.db.QueryRowContext(ctx, query, id))
}

// List returns all songs, newest first.
func (r *songRepository) List(ctx context.Context) ([]*domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY created_at DESC`
	return r.querySongs(ctx, query)
}

// ListByStatus returns all songs in a given ingest state, newest first.
func (r *songRepository) ListByStatus(ctx context.Context, status domain.SongStatus) ([]*domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE status = ? ORDER BY created_at DESC`
	return r.querySongs(ctx, query, string(status))
}

// Update replaces an existing song.
func (r *songRepository) Update(ctx context.Context, song *domain.Song) error {
	query := `
		UPDATE songs
		SET audio_origin_url = ?, audio_url = ?, length = ?, length_seconds = ?,
			artist = ?, title = ?, album_art_origin_url = ?, album_art_url = ?,
			is_secret = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		song.AudioOriginURL,
		song.AudioURL,
		song.Length,
		song.LengthSeconds,
		song.Artist,
		song.Title,
		song.AlbumArtOriginURL,
		song.AlbumArtURL,
		boolToInt(song.IsSecret),
		string(song.Status),
		song.UpdatedAt.Format(time.RFC3339Nano),
		song.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

// Delete deletes a song by ID.
func (r *songRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

// querySongs runs a song query and scans all rows.
func (r *songRepository) querySongs(ctx context.Context, query string, args ...any) ([]*domain.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		song, err := scanSongRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}
	return songs, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *songRepository) scanSong(row *sql.Row) (*domain.Song, error) {
	song, err := scanSongRow(row)
	if err != nil {
		return nil, err
	}
	return song, nil
}

func scanSongRow(row rowScanner) (*domain.Song, error) {
	var song domain.Song
	var isSecret int
	var status, createdAt, updatedAt string

	err := row.Scan(
		&song.ID,
		&song.AudioOriginURL,
		&song.AudioURL,
		&song.Length,
		&song.LengthSeconds,
		&song.Artist,
		&song.Title,
		&song.AlbumArtOriginURL,
		&song.AlbumArtURL,
		&isSecret,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song.IsSecret = isSecret != 0
	song.Status = domain.SongStatus(status)
	if song.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("song %s: bad created_at: %w", song.ID, err)
	}
	if song.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("song %s: bad updated_at: %w", song.ID, err)
	}
	return &song, nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
