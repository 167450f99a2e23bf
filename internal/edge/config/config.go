// Package config loads and caches the edge routing configuration.
// The configuration lives in three Parameter Store entries (Basic-Auth
// username, Basic-Auth password, comma-separated active version list) and is
// cached per execution environment for a fixed TTL. Concurrent edge instances
// each warm their own cache; duplicate cold fetches are harmless reads.
package config

import (
	"encoding/base64"
	"strings"
	"time"
)

// CacheTTL is how long a loaded configuration stays valid. Staleness up to
// this window is accepted in exchange for skipping a network round trip on
// warm requests.
const CacheTTL = 60 * time.Second

// DefaultVersionFallback is the active version list used when the source
// parameter is empty.
const DefaultVersionFallback = "v1"

// BasicAuthScheme is the challenge scheme prefix for the authorization header.
const BasicAuthScheme = "Basic"

// Config is the loaded edge configuration.
type Config struct {
	// AuthUsername and AuthPassword are the Basic-Auth credential pair.
	AuthUsername string
	AuthPassword string

	// AuthChallenge is the exact authorization header value an authenticated
	// request must carry: "Basic " + base64(username:password). Recomputed on
	// every (re)load.
	AuthChallenge string

	// ActiveVersions is the ordered list of deployed version identifiers,
	// source order preserved. Never empty after a successful load.
	ActiveVersions []string

	// FetchedAt is when this configuration was loaded.
	FetchedAt time.Time
}

// DefaultVersion returns the first active version, verbatim as configured.
func (c *Config) DefaultVersion() string {
	return c.ActiveVersions[0]
}

// Fresh reports whether the configuration is still within its TTL at now.
func (c *Config) Fresh(now time.Time) bool {
	return now.Sub(c.FetchedAt) < CacheTTL
}

// BasicChallenge computes the literal authorization header value for a
// credential pair.
func BasicChallenge(username, password string) string {
	return BasicAuthScheme + " " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// ParseActiveVersions splits a comma-separated version list, trimming
// whitespace and dropping empty segments. An empty result falls back to a
// single default entry so the list is never empty.
func ParseActiveVersions(source string) []string {
	var versions []string
	for _, segment := range strings.Split(source, ",") {
		segment = strings.TrimSpace(segment)
		if segment != "" {
			versions = append(versions, segment)
		}
	}
	if len(versions) == 0 {
		return []string{DefaultVersionFallback}
	}
	return versions
}
