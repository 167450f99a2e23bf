// Package domain contains the core business entities for Lit Up.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// Song Errors
	// ===========================================

	// ErrSongNotFound indicates the requested song does not exist.
	ErrSongNotFound = errors.New("song not found")

	// ErrSongAlreadyExists indicates a song with the same ID exists.
	ErrSongAlreadyExists = errors.New("song with this id already exists")

	// ErrSongAudioOriginRequired indicates the audio origin URL is missing.
	ErrSongAudioOriginRequired = errors.New("audio origin URL is required")

	// ErrSongAlbumArtOriginRequired indicates the album art origin URL is missing.
	ErrSongAlbumArtOriginRequired = errors.New("album art origin URL is required")

	// ErrSongArtistRequired indicates the artist is missing.
	ErrSongArtistRequired = errors.New("artist is required")

	// ErrSongTitleRequired indicates the title is missing.
	ErrSongTitleRequired = errors.New("title is required")

	// ErrSongNotReady indicates an operation requires a fully ingested song.
	ErrSongNotReady = errors.New("song media is not ready")

	// ===========================================
	// Config Errors
	// ===========================================

	// ErrConfigNotFound indicates the requested config does not exist.
	ErrConfigNotFound = errors.New("config not found")

	// ErrConfigAlreadyExists indicates a config with the same ID exists.
	ErrConfigAlreadyExists = errors.New("config with this id already exists")

	// ErrConfigIDRequired indicates the config ID is missing.
	ErrConfigIDRequired = errors.New("config id is required")

	// ErrConfigTrackIncomplete indicates a track is missing required fields.
	ErrConfigTrackIncomplete = errors.New("config track is missing required fields")
)
