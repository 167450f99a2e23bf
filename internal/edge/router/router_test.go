package router

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/edge/cloudfront"
	"github.com/prn-tf/litup/internal/edge/config"
)

func testConfig(versions ...string) *config.Config {
	if len(versions) == 0 {
		versions = []string{"v2", "v5"}
	}
	return &config.Config{
		AuthUsername:   "listener",
		AuthPassword:   "hunter2",
		AuthChallenge:  config.BasicChallenge("listener", "hunter2"),
		ActiveVersions: versions,
	}
}

func authedRequest(uri string) *cloudfront.Request {
	headers := cloudfront.Headers{}
	headers.Set("Authorization", config.BasicChallenge("listener", "hunter2"))
	return &cloudfront.Request{URI: uri, Method: "GET", Headers: headers}
}

func anonymousRequest(uri string) *cloudfront.Request {
	return &cloudfront.Request{URI: uri, Method: "GET", Headers: cloudfront.Headers{}}
}

func TestRouteRewrites(t *testing.T) {
	cases := []struct {
		name     string
		uri      string
		versions []string
		want     string
	}{
		{"root", "/", []string{"v2", "v5"}, "/v2/index.html"},
		{"empty URI", "", []string{"v2", "v5"}, "/v2/index.html"},
		{"unversioned file gets default prefix", "/playlist.mp3", []string{"v2", "v5"}, "/v2/playlist.mp3"},
		{"nested unversioned file", "/songs/abc.mp3", []string{"v2", "v5"}, "/v2/songs/abc.mp3"},
		{"versioned file untouched even when inactive", "/v7/playlist.mp3", []string{"v2", "v5"}, "/v7/playlist.mp3"},
		{"active versioned route", "/v5/settings", []string{"v1", "v5"}, "/v5/index.html"},
		{"uppercase versioned route lowercased", "/V5/settings", []string{"v1", "v5"}, "/v5/index.html"},
		{"active list matched case-insensitively", "/v5/settings", []string{"v1", "V5"}, "/v5/index.html"},
		{"inactive versioned route falls back", "/v9/settings", []string{"v1", "v5"}, "/v1/index.html"},
		{"bare active version", "/v5", []string{"v1", "v5"}, "/v5/index.html"},
		{"SPA route", "/settings", []string{"v2", "v5"}, "/v2/index.html"},
		{"nested SPA route", "/settings/audio", []string{"v2", "v5"}, "/v2/index.html"},
	}

	rt := New(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := rt.Route(authedRequest(tc.uri), testConfig(tc.versions...))
			if result.Request == nil {
				t.Fatalf("Route(%q) generated a response, want a forwarded request", tc.uri)
			}
			if result.Request.URI != tc.want {
				t.Errorf("Route(%q) URI = %q, want %q", tc.uri, result.Request.URI, tc.want)
			}
		})
	}
}

func TestRouteDefaultVersionKeepsSourceCasing(t *testing.T) {
	// The default version is activeVersions[0] verbatim, never re-cased.
	rt := New(zerolog.Nop())
	result := rt.Route(authedRequest("/"), testConfig("V3", "v4"))
	if result.Request == nil {
		t.Fatal("expected a forwarded request")
	}
	if result.Request.URI != "/V3/index.html" {
		t.Errorf("URI = %q, want /V3/index.html", result.Request.URI)
	}
}

func TestRouteUnauthorized(t *testing.T) {
	rt := New(zerolog.Nop())
	cfg := testConfig()

	badAuth := anonymousRequest("/settings")
	badAuth.Headers.Set("Authorization", "Basic d3Jvbmc6Y3JlZHM=")

	for name, req := range map[string]*cloudfront.Request{
		"missing header": anonymousRequest("/settings"),
		"wrong value":    badAuth,
		"root":           anonymousRequest("/"),
	} {
		t.Run(name, func(t *testing.T) {
			originalURI := req.URI
			result := rt.Route(req, cfg)
			if result.Response == nil {
				t.Fatal("expected a generated response")
			}
			if result.Response.Status != "401" {
				t.Errorf("status = %q, want 401", result.Response.Status)
			}
			if got := result.Response.Headers.First("www-authenticate"); got != "Basic" {
				t.Errorf("WWW-Authenticate = %q, want Basic", got)
			}
			if got := result.Response.Headers.First("cache-control"); got != "no-cache" {
				t.Errorf("Cache-Control = %q, want no-cache", got)
			}
			if req.URI != originalURI {
				t.Errorf("rejected request was rewritten: %q -> %q", originalURI, req.URI)
			}
		})
	}
}

func TestRoutePublicFilesBypassAuth(t *testing.T) {
	rt := New(zerolog.Nop())
	cfg := testConfig()

	cases := []struct {
		uri  string
		want string
	}{
		{"/manifest.json", "/v2/manifest.json"},
		{"/sw.js", "/v2/sw.js"},
		{"manifest.json", "/v2/manifest.json"},
		{"/v5/manifest.json", "/v5/manifest.json"},
	}

	for _, tc := range cases {
		t.Run(tc.uri, func(t *testing.T) {
			result := rt.Route(anonymousRequest(tc.uri), cfg)
			if result.Request == nil {
				t.Fatalf("Route(%q) generated a response, want passthrough with rewrite", tc.uri)
			}
			if result.Request.URI != tc.want {
				t.Errorf("Route(%q) URI = %q, want %q", tc.uri, result.Request.URI, tc.want)
			}
		})
	}
}

func TestRouteNonPublicDotfilesRequireAuth(t *testing.T) {
	rt := New(zerolog.Nop())
	result := rt.Route(anonymousRequest("/index.html"), testConfig())
	if result.Response == nil || result.Response.Status != "401" {
		t.Error("index.html is not on the public allowlist")
	}
}
