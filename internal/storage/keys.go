package storage

import "strings"

// KeyConfig holds the object key prefixes for the media bucket.
// The prefixes are mirrored in the URLs the playlist hands to the player,
// so changing them requires a matching site deployment.
type KeyConfig struct {
	SongsPrefix    string
	AlbumArtPrefix string
}

// DefaultKeyConfig returns the bucket layout used in production.
func DefaultKeyConfig() KeyConfig {
	return KeyConfig{
		SongsPrefix:    "songs/",
		AlbumArtPrefix: "album_art/",
	}
}

// SongKey returns the object key for a song's processed audio.
func (c KeyConfig) SongKey(songID string) string {
	return joinPrefix(c.SongsPrefix, songID+".mp3")
}

// AlbumArtKey returns the object key for a song's cover image.
func (c KeyConfig) AlbumArtKey(songID string) string {
	return joinPrefix(c.AlbumArtPrefix, songID+".jpg")
}

// SongURL returns the site-relative URL the player fetches audio from.
func (c KeyConfig) SongURL(songID string) string {
	return "/" + c.SongKey(songID)
}

// AlbumArtURL returns the site-relative URL for a song's cover image.
func (c KeyConfig) AlbumArtURL(songID string) string {
	return "/" + c.AlbumArtKey(songID)
}

func joinPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
