// Package config loads and caches the edge routing configuration.
package config

// Store holds the single cached configuration for one execution environment.
// It is injected so tests can stage cold, warm, and stale states without
// sleeping. There is no explicit expiry call: invalidation is lazy, on read,
// against the TTL, matching the only invalidation path the edge runtime
// provides (environment recycling).
type Store interface {
	// Get returns the cached configuration, or nil when cold.
	Get() *Config

	// Set replaces the cached configuration.
	Set(cfg *Config)

	// Clear drops the cached configuration.
	Clear()
}

// MemoryStore is the production Store: a plain slot, owned exclusively by the
// executing instance. Lambda invokes an execution environment serially, so no
// locking is needed.
type MemoryStore struct {
	cfg *Config
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the cached configuration, or nil when cold.
func (s *MemoryStore) Get() *Config {
	return s.cfg
}

// Set replaces the cached configuration.
func (s *MemoryStore) Set(cfg *Config) {
	s.cfg = cfg
}

// Clear drops the cached configuration.
func (s *MemoryStore) Clear() {
	s.cfg = nil
}
