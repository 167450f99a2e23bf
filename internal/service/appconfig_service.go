package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/cache"
	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/pkg/crypto"
	"github.com/prn-tf/litup/internal/repository"
	"github.com/prn-tf/litup/internal/storage"
)

// playlistCacheKey is the cache key for the current playlist build.
const playlistCacheKey = "appconfig:playlist"

// AppConfigService builds the player configuration from the song catalog
// and manages stored config revisions.
type AppConfigService struct {
	songRepo   repository.SongRepository
	configRepo repository.ConfigRepository
	cache      cache.Cache
	cacheTTL   time.Duration
	keys       storage.KeyConfig
	logger     zerolog.Logger

	// headerMessage is the banner shown above the playlist.
	headerMessage string
}

// AppConfigOption customizes an AppConfigService.
type AppConfigOption func(*AppConfigService)

// WithPlaylistCache enables caching of playlist builds.
func WithPlaylistCache(c cache.Cache, ttl time.Duration) AppConfigOption {
	return func(s *AppConfigService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithHeaderMessage sets the banner message included in built configs.
func WithHeaderMessage(msg string) AppConfigOption {
	return func(s *AppConfigService) {
		s.headerMessage = msg
	}
}

// WithKeyConfig overrides the media bucket layout used for track URLs.
func WithKeyConfig(keys storage.KeyConfig) AppConfigOption {
	return func(s *AppConfigService) {
		s.keys = keys
	}
}

// NewAppConfigService creates a new AppConfigService.
func NewAppConfigService(
	songRepo repository.SongRepository,
	configRepo repository.ConfigRepository,
	logger zerolog.Logger,
	opts ...AppConfigOption,
) *AppConfigService {
	s := &AppConfigService{
		songRepo:   songRepo,
		configRepo: configRepo,
		keys:       storage.DefaultKeyConfig(),
		logger:     logger.With().Str("service", "appconfig").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// Playlist Build
// =============================================================================

// BuildPlaylist assembles the player configuration from all ready songs,
// newest first. Songs still in the ingest pipeline are left out.
func (s *AppConfigService) BuildPlaylist(ctx context.Context) (*domain.AppConfig, error) {
	if cached := s.cachedPlaylist(ctx); cached != nil {
		return cached, nil
	}

	songs, err := s.songRepo.ListByStatus(ctx, domain.SongStatusReady)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list ready songs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	tracks := make([]domain.Track, 0, len(songs))
	for _, song := range songs {
		tracks = append(tracks, s.trackFor(song))
	}

	buildHash, err := crypto.GenerateBuildHash()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	cfg := &domain.AppConfig{
		Tracks:        tracks,
		HeaderMessage: s.headerMessage,
		BuildDatetime: time.Now().UTC().Format(time.RFC3339),
		BuildHash:     buildHash,
		ConcatenatedPlaylist: domain.ConcatenatedPlaylist{
			Enabled: false,
			Tracks:  []domain.ConcatenatedTrack{},
		},
	}

	s.storePlaylist(ctx, cfg)

	s.logger.Info().
		Int("tracks", len(tracks)).
		Str("build_hash", buildHash).
		Msg("playlist built")

	return cfg, nil
}

// InvalidatePlaylist drops the cached playlist build. Called whenever the
// catalog changes so the next read rebuilds.
func (s *AppConfigService) InvalidatePlaylist(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, playlistCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate playlist cache")
	}
}

// trackFor converts a ready song into a playlist track. The served URLs
// are recomputed from the bucket layout rather than trusted from the row.
func (s *AppConfigService) trackFor(song *domain.Song) domain.Track {
	duration := ""
	if song.Length != nil {
		duration = *song.Length
	}
	return domain.Track{
		ID:       song.ID,
		Src:      s.keys.SongURL(song.ID),
		Title:    song.Title,
		Artist:   song.Artist,
		Duration: duration,
		Cover:    s.keys.AlbumArtURL(song.ID),
		IsSecret: song.IsSecret,
	}
}

func (s *AppConfigService) cachedPlaylist(ctx context.Context) *domain.AppConfig {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, playlistCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("playlist cache read failed")
		}
		return nil
	}

	var cfg domain.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn().Err(err).Msg("playlist cache entry corrupt")
		return nil
	}
	return &cfg
}

func (s *AppConfigService) storePlaylist(ctx context.Context, cfg *domain.AppConfig) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal playlist for cache")
		return
	}
	if err := s.cache.Set(ctx, playlistCacheKey, data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("playlist cache write failed")
	}
}

// =============================================================================
// Stored Config Revisions
// =============================================================================

// CreateConfigInput contains the data needed to create a config revision.
type CreateConfigInput struct {
	Config domain.StoredConfig
}

// CreateConfigOutput contains the result of creating a config revision.
type CreateConfigOutput struct {
	Config *domain.StoredConfig
}

// GetConfigInput contains the data needed to get a config revision.
type GetConfigInput struct {
	ID string
}

// GetConfigOutput contains the result of getting a config revision.
type GetConfigOutput struct {
	Config *domain.StoredConfig
}

// ListConfigsOutput contains the result of listing config revisions.
type ListConfigsOutput struct {
	Configs []*domain.StoredConfig
}

// UpdateConfigInput contains the data needed to update a config revision.
type UpdateConfigInput struct {
	ID     string
	Config domain.AppConfig
}

// UpdateConfigOutput contains the result of updating a config revision.
type UpdateConfigOutput struct {
	Config *domain.StoredConfig
}

// DeleteConfigInput contains the data needed to delete a config revision.
type DeleteConfigInput struct {
	ID string
}

// CreateConfig creates a new stored config revision.
func (s *AppConfigService) CreateConfig(ctx context.Context, input CreateConfigInput) (*CreateConfigOutput, error) {
	cfg := input.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	if err := s.configRepo.Create(ctx, &cfg); err != nil {
		if errors.Is(err, domain.ErrConfigAlreadyExists) {
			return nil, domain.ErrConfigAlreadyExists
		}
		s.logger.Error().Err(err).Str("config_id", cfg.ID).Msg("failed to create config")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("config_id", cfg.ID).Msg("config created")
	return &CreateConfigOutput{Config: &cfg}, nil
}

// GetConfig retrieves a stored config revision by ID.
func (s *AppConfigService) GetConfig(ctx context.Context, input GetConfigInput) (*GetConfigOutput, error) {
	if input.ID == "" {
		return nil, domain.ErrConfigIDRequired
	}

	cfg, err := s.configRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, domain.ErrConfigNotFound
		}
		s.logger.Error().Err(err).Str("config_id", input.ID).Msg("failed to get config")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &GetConfigOutput{Config: cfg}, nil
}

// ListConfigs returns all stored config revisions.
func (s *AppConfigService) ListConfigs(ctx context.Context) (*ListConfigsOutput, error) {
	configs, err := s.configRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list configs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &ListConfigsOutput{Configs: configs}, nil
}

// UpdateConfig replaces the payload of a stored config revision.
func (s *AppConfigService) UpdateConfig(ctx context.Context, input UpdateConfigInput) (*UpdateConfigOutput, error) {
	if input.ID == "" {
		return nil, domain.ErrConfigIDRequired
	}

	existing, err := s.configRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, domain.ErrConfigNotFound
		}
		s.logger.Error().Err(err).Str("config_id", input.ID).Msg("failed to get config for update")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	existing.Config = input.Config
	existing.UpdatedAt = time.Now().UTC()
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.configRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, domain.ErrConfigNotFound
		}
		s.logger.Error().Err(err).Str("config_id", input.ID).Msg("failed to update config")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("config_id", input.ID).Msg("config updated")
	return &UpdateConfigOutput{Config: existing}, nil
}

// DeleteConfig deletes a stored config revision.
func (s *AppConfigService) DeleteConfig(ctx context.Context, input DeleteConfigInput) error {
	if input.ID == "" {
		return domain.ErrConfigIDRequired
	}

	if err := s.configRepo.Delete(ctx, input.ID); err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return domain.ErrConfigNotFound
		}
		s.logger.Error().Err(err).Str("config_id", input.ID).Msg("failed to delete config")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("config_id", input.ID).Msg("config deleted")
	return nil
}
