// Package domain contains the core business entities for Lit Up.
package domain

import "time"

// Track is one playlist entry as the player consumes it.
type Track struct {
	ID       string `json:"id"`
	Src      string `json:"src"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
	Cover    string `json:"cover"`
	IsSecret bool   `json:"isSecret"`
}

// ConcatenatedTrack is one entry of the single-file playlist, addressed by
// offsets into the concatenated audio.
type ConcatenatedTrack struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Duration  float64 `json:"duration"`
}

// ConcatenatedPlaylist describes the optional single-file rendition of the
// playlist: all tracks joined into one audio file with an offset index.
type ConcatenatedPlaylist struct {
	Enabled       bool                `json:"enabled"`
	File          string              `json:"file"`
	Tracks        []ConcatenatedTrack `json:"tracks"`
	TotalDuration float64             `json:"totalDuration"`
}

// AppConfig is the player configuration served to the React app.
type AppConfig struct {
	Tracks               []Track              `json:"tracks"`
	HeaderMessage        string               `json:"headerMessage"`
	BuildDatetime        string               `json:"buildDatetime"`
	BuildHash            string               `json:"buildHash"`
	ConcatenatedPlaylist ConcatenatedPlaylist `json:"concatenatedPlaylist"`
}

// StoredConfig is a named AppConfig revision kept in the config table.
type StoredConfig struct {
	ID        string    `json:"id"`
	Config    AppConfig `json:"config"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks a stored config for structural validity.
func (c *StoredConfig) Validate() error {
	if c.ID == "" {
		return ErrConfigIDRequired
	}
	for _, track := range c.Config.Tracks {
		if track.ID == "" || track.Title == "" || track.Artist == "" || track.Duration == "" {
			return ErrConfigTrackIncomplete
		}
	}
	return nil
}
