// Package cache provides artifact caching for the rendering pipeline.
//
// Rendering a document through Graphviz is the slow part of the pipeline,
// so rendered artifacts are cached under content-hash keys: the same
// document with the same render options always maps to the same key.
//
// Three backends are provided:
//   - file: directory-backed cache for CLI usage (the default)
//   - redis: shared cache for multi-instance server deployments
//   - null: disables caching
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
