// Package service provides business logic services for Lit Up.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/domain"
	"github.com/prn-tf/litup/internal/repository"
)

// SongService handles song catalog operations.
type SongService struct {
	songRepo repository.SongRepository
	logger   zerolog.Logger
}

// NewSongService creates a new SongService.
func NewSongService(songRepo repository.SongRepository, logger zerolog.Logger) *SongService {
	return &SongService{
		songRepo: songRepo,
		logger:   logger.With().Str("service", "song").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateSongInput contains the data needed to create a song.
type CreateSongInput struct {
	Create domain.SongCreate
}

// CreateSongOutput contains the result of creating a song.
type CreateSongOutput struct {
	Song *domain.Song
}

// GetSongInput contains the data needed to get a song.
type GetSongInput struct {
	ID string
}

// GetSongOutput contains the result of getting a song.
type GetSongOutput struct {
	Song *domain.Song
}

// ListSongsInput contains the data needed to list songs.
type ListSongsInput struct {
	// Status filters by ingest state when non-empty.
	Status domain.SongStatus
}

// ListSongsOutput contains the result of listing songs.
type ListSongsOutput struct {
	Songs []*domain.Song
}

// UpdateSongInput contains the data needed to patch a song.
type UpdateSongInput struct {
	ID    string
	Patch domain.SongPatch
}

// UpdateSongOutput contains the result of patching a song.
type UpdateSongOutput struct {
	Song *domain.Song
}

// DeleteSongInput contains the data needed to delete a song.
type DeleteSongInput struct {
	ID string
}

// =============================================================================
// Service Methods
// =============================================================================

// CreateSong creates a new song in the "new" state. The ingest loop picks
// it up from there.
func (s *SongService) CreateSong(ctx context.Context, input CreateSongInput) (*CreateSongOutput, error) {
	if err := input.Create.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	song := &domain.Song{
		ID:                uuid.NewString(),
		AudioOriginURL:    input.Create.AudioOriginURL,
		AlbumArtOriginURL: input.Create.AlbumArtOriginURL,
		Artist:            input.Create.Artist,
		Title:             input.Create.Title,
		Status:            domain.SongStatusNew,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.songRepo.Create(ctx, song); err != nil {
		if errors.Is(err, domain.ErrSongAlreadyExists) {
			return nil, domain.ErrSongAlreadyExists
		}
		s.logger.Error().Err(err).Str("song_id", song.ID).Msg("failed to create song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("song_id", song.ID).
		Str("artist", song.Artist).
		Str("title", song.Title).
		Msg("song created")

	return &CreateSongOutput{Song: song}, nil
}

// GetSong retrieves a song by ID.
func (s *SongService) GetSong(ctx context.Context, input GetSongInput) (*GetSongOutput, error) {
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	song, err := s.songRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", input.ID).Msg("failed to get song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &GetSongOutput{Song: song}, nil
}

// ListSongs returns all songs, optionally filtered by ingest state.
func (s *SongService) ListSongs(ctx context.Context, input ListSongsInput) (*ListSongsOutput, error) {
	var (
		songs []*domain.Song
		err   error
	)
	if input.Status != "" {
		songs, err = s.songRepo.ListByStatus(ctx, input.Status)
	} else {
		songs, err = s.songRepo.List(ctx)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list songs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &ListSongsOutput{Songs: songs}, nil
}

// UpdateSong applies a patch to a song. Changing an origin URL resets the
// song to "new" so the ingest loop refetches its media.
func (s *SongService) UpdateSong(ctx context.Context, input UpdateSongInput) (*UpdateSongOutput, error) {
	if err := validateID(input.ID); err != nil {
		return nil, err
	}
	if err := input.Patch.Validate(); err != nil {
		return nil, err
	}

	song, err := s.songRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", input.ID).Msg("failed to get song for update")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if input.Patch.Empty() {
		return &UpdateSongOutput{Song: song}, nil
	}

	reingest := originChanged(song, input.Patch)
	input.Patch.Apply(song)
	if reingest {
		song.Status = domain.SongStatusNew
		song.AudioURL = nil
		song.AlbumArtURL = nil
	}
	song.UpdatedAt = time.Now().UTC()

	if err := s.songRepo.Update(ctx, song); err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return nil, domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", input.ID).Msg("failed to update song")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("song_id", song.ID).
		Bool("reingest", reingest).
		Msg("song updated")

	return &UpdateSongOutput{Song: song}, nil
}

// DeleteSong deletes a song.
func (s *SongService) DeleteSong(ctx context.Context, input DeleteSongInput) error {
	if err := validateID(input.ID); err != nil {
		return err
	}

	if err := s.songRepo.Delete(ctx, input.ID); err != nil {
		if errors.Is(err, domain.ErrSongNotFound) {
			return domain.ErrSongNotFound
		}
		s.logger.Error().Err(err).Str("song_id", input.ID).Msg("failed to delete song")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("song_id", input.ID).Msg("song deleted")
	return nil
}

// originChanged reports whether the patch replaces either origin URL.
func originChanged(song *domain.Song, patch domain.SongPatch) bool {
	if patch.AudioOriginURL != nil && *patch.AudioOriginURL != song.AudioOriginURL {
		return true
	}
	if patch.AlbumArtOriginURL != nil && *patch.AlbumArtOriginURL != song.AlbumArtOriginURL {
		return true
	}
	return false
}

// validateID checks that an ID is a well-formed UUID.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
