// Package domain contains the core business entities for Lit Up.
package domain

import (
	"strings"
	"time"
)

// SongStatus tracks a song through the ingest pipeline.
type SongStatus string

const (
	// SongStatusNew is a freshly created song with only origin URLs.
	SongStatusNew SongStatus = "new"

	// SongStatusProcessing means the ingest pipeline is fetching and
	// uploading the song's media.
	SongStatusProcessing SongStatus = "processing"

	// SongStatusReady means the song's media is served from the site bucket.
	SongStatusReady SongStatus = "ready"

	// SongStatusFailed means ingest failed; origin URLs are kept for retry.
	SongStatusFailed SongStatus = "failed"
)

// Song is a playlist entry. Origin URLs point at the upstream source the
// media is ingested from; AudioURL and AlbumArtURL are the site-relative
// paths once ingest completes.
type Song struct {
	// ID is the song's UUID.
	ID string `json:"id"`

	// AudioOriginURL is the upstream source of the audio.
	AudioOriginURL string `json:"audioOriginUrl"`

	// AudioURL is the served path (/songs/<id>.mp3), nil until ingested.
	AudioURL *string `json:"audioUrl"`

	// Length is the human-readable duration ("3:42"), nil until known.
	Length *string `json:"length"`

	// LengthSeconds is the duration in seconds, nil until known.
	LengthSeconds *float64 `json:"lengthSeconds"`

	// Artist and Title describe the track.
	Artist string `json:"artist"`
	Title  string `json:"title"`

	// AlbumArtOriginURL is the upstream source of the cover image.
	AlbumArtOriginURL string `json:"albumArtOriginUrl"`

	// AlbumArtURL is the served path (/album_art/<id>.jpg), nil until ingested.
	AlbumArtURL *string `json:"albumArtUrl"`

	// IsSecret hides the track from the default playlist view.
	IsSecret bool `json:"isSecret"`

	// Status is the ingest pipeline state.
	Status SongStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SongCreate are the fields accepted on song creation.
type SongCreate struct {
	AudioOriginURL    string `json:"audio_origin_url"`
	AlbumArtOriginURL string `json:"album_art_origin_url"`
	Artist            string `json:"artist"`
	Title             string `json:"title"`
}

// Validate checks that all required fields are non-empty.
func (c SongCreate) Validate() error {
	if strings.TrimSpace(c.AudioOriginURL) == "" {
		return ErrSongAudioOriginRequired
	}
	if strings.TrimSpace(c.AlbumArtOriginURL) == "" {
		return ErrSongAlbumArtOriginRequired
	}
	if strings.TrimSpace(c.Artist) == "" {
		return ErrSongArtistRequired
	}
	if strings.TrimSpace(c.Title) == "" {
		return ErrSongTitleRequired
	}
	return nil
}

// SongPatch are the fields accepted on song update. Nil fields are left
// untouched.
type SongPatch struct {
	AudioOriginURL    *string  `json:"audio_origin_url"`
	AlbumArtOriginURL *string  `json:"album_art_origin_url"`
	Artist            *string  `json:"artist"`
	Title             *string  `json:"title"`
	Length            *string  `json:"length"`
	LengthSeconds     *float64 `json:"length_seconds"`
	IsSecret          *bool    `json:"is_secret"`
}

// Validate rejects patches that blank out required fields.
func (p SongPatch) Validate() error {
	if p.AudioOriginURL != nil && strings.TrimSpace(*p.AudioOriginURL) == "" {
		return ErrSongAudioOriginRequired
	}
	if p.AlbumArtOriginURL != nil && strings.TrimSpace(*p.AlbumArtOriginURL) == "" {
		return ErrSongAlbumArtOriginRequired
	}
	if p.Artist != nil && strings.TrimSpace(*p.Artist) == "" {
		return ErrSongArtistRequired
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrSongTitleRequired
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p SongPatch) Empty() bool {
	return p.AudioOriginURL == nil && p.AlbumArtOriginURL == nil &&
		p.Artist == nil && p.Title == nil &&
		p.Length == nil && p.LengthSeconds == nil && p.IsSecret == nil
}

// Apply copies the provided fields onto a song.
func (p SongPatch) Apply(song *Song) {
	if p.AudioOriginURL != nil {
		song.AudioOriginURL = *p.AudioOriginURL
	}
	if p.AlbumArtOriginURL != nil {
		song.AlbumArtOriginURL = *p.AlbumArtOriginURL
	}
	if p.Artist != nil {
		song.Artist = *p.Artist
	}
	if p.Title != nil {
		song.Title = *p.Title
	}
	if p.Length != nil {
		song.Length = p.Length
	}
	if p.LengthSeconds != nil {
		song.LengthSeconds = p.LengthSeconds
	}
	if p.IsSecret != nil {
		song.IsSecret = *p.IsSecret
	}
}
