// Package cache stores encoded layout results for reuse within a process.
//
// Layouts are pure functions of the graph and the layout options, so the
// pipeline keys results by a hash of both. When the same graph is laid out
// again, for instance when the watch view restarts or several output formats
// are written, the cached result is decoded instead of recomputed.
//
// Only in-memory storage is provided; results are never written to disk.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLLayout bounds how long a computed layout is reused.
	TTLLayout = 10 * time.Minute

	// TTLRender bounds how long an encoded output is reused.
	TTLRender = 10 * time.Minute
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache.
	Close() error
}
