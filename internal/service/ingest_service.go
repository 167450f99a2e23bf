package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/lock"
	"github.com/prn-tf/litup/internal/metrics"
	"github.com/prn-tf/litup/internal/repository"
	"github.com/prn-tf/litup/internal/storage"
)

// PlaylistInvalidator drops cached playlist builds after catalog changes.
// Satisfied by AppConfigService.
type PlaylistInvalidator interface {
	InvalidatePlaylist(ctx context.Context)
}

// IngestService moves songs through the media pipeline: it downloads
// origin audio and cover art, uploads both to the site bucket, and marks
// the song ready. A per-song lock keeps replicas from double-processing.
type IngestService struct {
	songRepo    repository.SongRepository
	store       storage.MediaStore
	locker      lock.Locker
	httpClient  *http.Client
	keys        storage.KeyConfig
	lockTTL     time.Duration
	invalidator PlaylistInvalidator
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// IngestOption customizes an IngestService.
type IngestOption func(*IngestService)

// WithHTTPClient overrides the origin fetch client.
func WithHTTPClient(c *http.Client) IngestOption {
	return func(s *IngestService) {
		s.httpClient = c
	}
}

// WithLockTTL sets how long one song's ingest lock is held.
func WithLockTTL(ttl time.Duration) IngestOption {
	return func(s *IngestService) {
		s.lockTTL = ttl
	}
}

// WithInvalidator registers a playlist cache to drop when songs become ready.
func WithInvalidator(inv PlaylistInvalidator) IngestOption {
	return func(s *IngestService) {
		s.invalidator = inv
	}
}

// WithIngestMetrics enables ingest attempt counting.
func WithIngestMetrics(m *metrics.Metrics) IngestOption {
	return func(s *IngestService) {
		s.metrics = m
	}
}

// WithIngestKeyConfig overrides the media bucket layout.
func WithIngestKeyConfig(keys storage.KeyConfig) IngestOption {
	return func(s *IngestService) {
		s.keys = keys
	}
}

// NewIngestService creates a new IngestService.
func NewIngestService(
	songRepo repository.SongRepository,
	store storage.MediaStore,
	locker lock.Locker,
	logger zerolog.Logger,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		songRepo:   songRepo,
		store:      store,
		locker:     locker,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		keys:       storage.DefaultKeyConfig(),
		lockTTL:    5 * time.Minute,
		logger:     logger.With().Str("service", "ingest").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes new songs on the given interval until the context is done.
func (s *IngestService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("ingest loop started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("ingest loop stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("ingest pass failed")
			}
		}
	}
}

// RunOnce processes every song currently in the "new" state.
// Per-song failures mark that song failed and do not stop the pass.
func (s *IngestService) RunOnce(ctx context.Context) error {
	songs, err := s.songRepo.ListByStatus(ctx, domain.SongStatusNew)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	var ready int
	for _, song := range songs {
		if err := s.IngestSong(ctx, song.ID); err != nil {
			if errors.Is(err, ErrIngestLocked) {
				s.recordIngest(metrics.IngestResultLocked)
				continue
			}
			s.recordIngest(metrics.IngestResultFailed)
			s.logger.Error().Err(err).Str("song_id", song.ID).Msg("song ingest failed")
			continue
		}
		s.recordIngest(metrics.IngestResultReady)
		ready++
	}

	if ready > 0 && s.invalidator != nil {
		s.invalidator.InvalidatePlaylist(ctx)
	}
	return nil
}

// IngestSong fetches and uploads one song's media, then marks it ready.
// Returns ErrIngestLocked if another worker holds the song's lock.
func (s *IngestService) IngestSong(ctx context.Context, songID string) error {
	key := lock.Keys.SongIngest(songID)
	acquired, err := s.locker.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return ErrIngestLocked
	}
	defer func() {
		if _, err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn().Err(err).Str("song_id", songID).Msg("failed to release ingest lock")
		}
	}()

	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return domain.ErrSongNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.markStatus(ctx, song, domain.SongStatusProcessing); err != nil {
		return err
	}

	if err := s.transferMedia(ctx, song); err != nil {
		if markErr := s.markStatus(ctx, song, domain.SongStatusFailed); markErr != nil {
			s.logger.Error().Err(markErr).Str("song_id", song.ID).Msg("failed to mark song failed")
		}
		return err
	}

	audioURL := s.keys.SongURL(song.ID)
	artURL := s.keys.AlbumArtURL(song.ID)
	song.AudioURL = &audioURL
	song.AlbumArtURL = &artURL
	if err := s.markStatus(ctx, song, domain.SongStatusReady); err != nil {
		return err
	}

	s.logger.Info().
		Str("song_id", song.ID).
		Str("artist", song.Artist).
		Str("title", song.Title).
		Msg("song ingested")

	return nil
}

// transferMedia copies both origin objects into the site bucket.
func (s *IngestService) transferMedia(ctx context.Context, song *domain.Song) error {
	if err := s.copyOrigin(ctx, song.AudioOriginURL, s.keys.SongKey(song.ID), "audio/mpeg"); err != nil {
		return err
	}
	return s.copyOrigin(ctx, song.AlbumArtOriginURL, s.keys.AlbumArtKey(song.ID), "image/jpeg")
}

// copyOrigin streams one origin URL into the media store.
func (s *IngestService) copyOrigin(ctx context.Context, originURL, key, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, originURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOriginFetch, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOriginFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: origin returned %d for %s", ErrOriginFetch, resp.StatusCode, originURL)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		contentType = ct
	}

	if err := s.store.Put(ctx, key, resp.Body, resp.ContentLength, contentType); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}

func (s *IngestService) recordIngest(result string) {
	if s.metrics != nil {
		s.metrics.RecordIngest(result)
	}
}

func (s *IngestService) markStatus(ctx context.Context, song *domain.Song, status domain.SongStatus) error {
	song.Status = status
	song.UpdatedAt = time.Now().UTC()
	if err := s.songRepo.Update(ctx, song); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return nil
}
