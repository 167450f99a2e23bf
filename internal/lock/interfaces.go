// Package lock provides distributed and local locking abstractions.
// The ingest loop uses locks to keep multiple replicas from processing
// the same song at once. Single-node deployments use memory-based locks;
// distributed deployments use Redis-based locks.
package lock

import (
	"context"
	"time"
)

// Locker defines the interface for distributed/local locking.
type Locker interface {
	// Acquire attempts to acquire a lock.
	// Returns true if the lock was acquired, false if it's held elsewhere.
	// The lock automatically expires after the specified TTL.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases a lock.
	// Returns true if the lock was released, false if it wasn't held.
	Release(ctx context.Context, key string) (bool, error)

	// Extend extends the TTL of a held lock.
	// Returns true if the lock was extended, false if it's not held.
	Extend(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Keys provides lock key generation for the scenarios the service locks on.
var Keys = lockKeys{}

type lockKeys struct{}

// SongIngest returns the lock key guarding one song's download and upload.
func (lockKeys) SongIngest(songID string) string {
	return "lock:ingest:song:" + songID
}

// ConfigBuild returns the lock key guarding a playlist rebuild.
func (lockKeys) ConfigBuild() string {
	return "lock:config:build"
}
