package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

var testNames = ParameterNames{
	AuthUsername:   "/lit-up/test/edge-auth-username",
	AuthPassword:   "/lit-up/test/edge-auth-password",
	ActiveVersions: "/lit-up/test/active-versions",
}

// mockSource is a scriptable ParameterSource that counts fetches.
type mockSource struct {
	values  map[string]string
	invalid []string
	err     error
	calls   int
}

func (m *mockSource) GetParameters(ctx context.Context, names []string) (map[string]string, []string, error) {
	m.calls++
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.values, m.invalid, nil
}

func fullValues() map[string]string {
	return map[string]string{
		testNames.AuthUsername:   "listener",
		testNames.AuthPassword:   "hunter2",
		testNames.ActiveVersions: "v2,v5",
	}
}

// testClock is an adjustable time source.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestLoader(source *mockSource, clock *testClock) (*Loader, *MemoryStore) {
	store := NewMemoryStore()
	loader := NewLoader(source, store, testNames, zerolog.Nop(), WithClock(clock.Now))
	return loader, store
}

func TestLoadColdCache(t *testing.T) {
	source := &mockSource{values: fullValues()}
	clock := &testClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	loader, _ := newTestLoader(source, clock)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if source.calls != 1 {
		t.Errorf("fetches = %d, want 1", source.calls)
	}
	if cfg.AuthUsername != "listener" || cfg.AuthPassword != "hunter2" {
		t.Errorf("credentials = %q/%q", cfg.AuthUsername, cfg.AuthPassword)
	}
	if cfg.AuthChallenge != BasicChallenge("listener", "hunter2") {
		t.Errorf("AuthChallenge = %q", cfg.AuthChallenge)
	}
	if cfg.DefaultVersion() != "v2" {
		t.Errorf("DefaultVersion() = %q, want v2", cfg.DefaultVersion())
	}
	if !cfg.FetchedAt.Equal(clock.now) {
		t.Errorf("FetchedAt = %v, want %v", cfg.FetchedAt, clock.now)
	}
}

func TestLoadWarmCacheSkipsFetch(t *testing.T) {
	source := &mockSource{values: fullValues()}
	clock := &testClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	loader, _ := newTestLoader(source, clock)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Any request before t0+TTL reuses the cached configuration unchanged.
	clock.now = clock.now.Add(CacheTTL - time.Millisecond)
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if source.calls != 1 {
		t.Errorf("fetches = %d, want 1", source.calls)
	}
	if second != first {
		t.Error("warm load should return the cached configuration unchanged")
	}
}

func TestLoadStaleCacheRefetches(t *testing.T) {
	source := &mockSource{values: fullValues()}
	clock := &testClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	loader, _ := newTestLoader(source, clock)

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// A request arriving exactly at t0+TTL triggers exactly one new fetch.
	clock.now = clock.now.Add(CacheTTL)
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if source.calls != 2 {
		t.Errorf("fetches = %d, want 2", source.calls)
	}
	if !cfg.FetchedAt.Equal(clock.now) {
		t.Errorf("FetchedAt = %v, want refresh at %v", cfg.FetchedAt, clock.now)
	}
}

func TestLoadFetchErrorCachesNothing(t *testing.T) {
	source := &mockSource{err: errors.New("connect: network unreachable")}
	clock := &testClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	loader, store := newTestLoader(source, clock)

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrConfigUnavailable) {
		t.Fatalf("Load() error = %v, want ErrConfigUnavailable", err)
	}
	if store.Get() != nil {
		t.Error("a failed load must not cache anything")
	}

	// The next request retries naturally.
	source.err = nil
	source.values = fullValues()
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load() after recovery error = %v", err)
	}
	if source.calls != 2 {
		t.Errorf("fetches = %d, want 2", source.calls)
	}
}

func TestLoadMissingAuthParameters(t *testing.T) {
	source := &mockSource{
		values: map[string]string{
			testNames.AuthUsername:   "listener",
			testNames.ActiveVersions: "v1",
		},
		invalid: []string{testNames.AuthPassword},
	}
	clock := &testClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	loader, _ := newTestLoader(source, clock)

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrConfigUnavailable) {
		t.Fatalf("Load() error = %v, want ErrConfigUnavailable", err)
	}

	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("Load() error = %T, want *UnavailableError", err)
	}
	if len(unavailable.InvalidParameters) != 1 || unavailable.InvalidParameters[0] != testNames.AuthPassword {
		t.Errorf("InvalidParameters = %v, want the password name", unavailable.InvalidParameters)
	}
}

func TestLoadEmptyVersionsFallback(t *testing.T) {
	values := fullValues()
	values[testNames.ActiveVersions] = ","
	source := &mockSource{values: values}
	clock := &testClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
	loader, _ := newTestLoader(source, clock)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.ActiveVersions) != 1 || cfg.ActiveVersions[0] != "v1" {
		t.Errorf("ActiveVersions = %v, want [v1]", cfg.ActiveVersions)
	}
	if cfg.DefaultVersion() != "v1" {
		t.Errorf("DefaultVersion() = %q, want v1", cfg.DefaultVersion())
	}
}
