package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseActiveVersions(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []string
	}{
		{"empty falls back", "", []string{"v1"}},
		{"only commas falls back", ",", []string{"v1"}},
		{"whitespace falls back", " , ", []string{"v1"}},
		{"single", "v2", []string{"v2"}},
		{"ordered", "v2,v5,v1", []string{"v2", "v5", "v1"}},
		{"trims whitespace", " v2 , v5 ", []string{"v2", "v5"}},
		{"drops empty segments", "v2,,v5,", []string{"v2", "v5"}},
		{"keeps source casing", "V3,v4", []string{"V3", "v4"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseActiveVersions(tc.source); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseActiveVersions(%q) = %v, want %v", tc.source, got, tc.want)
			}
		})
	}
}

func TestDefaultVersionIsFirstEntry(t *testing.T) {
	cfg := &Config{ActiveVersions: ParseActiveVersions("V2,v5")}
	if got := cfg.DefaultVersion(); got != "V2" {
		t.Errorf("DefaultVersion() = %q, want V2 verbatim", got)
	}
}

func TestBasicChallenge(t *testing.T) {
	// base64("listener:hunter2")
	want := "Basic bGlzdGVuZXI6aHVudGVyMg=="
	if got := BasicChallenge("listener", "hunter2"); got != want {
		t.Errorf("BasicChallenge() = %q, want %q", got, want)
	}
}

func TestFreshTTLBoundary(t *testing.T) {
	t0 := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	cfg := &Config{FetchedAt: t0}

	if !cfg.Fresh(t0) {
		t.Error("configuration should be fresh at fetch time")
	}
	if !cfg.Fresh(t0.Add(CacheTTL - time.Millisecond)) {
		t.Error("configuration should be fresh just before the TTL")
	}
	if cfg.Fresh(t0.Add(CacheTTL)) {
		t.Error("configuration should be stale exactly at the TTL")
	}
}
