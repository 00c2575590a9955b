// Package cache stores rendered diagram artifacts keyed by content hash.
//
// Rendering an FSM is cheap, but the digraph path runs a full Graphviz
// layout and the preview path compiles TeX; caching the produced markup
// lets repeated renders of the same diagram skip both. Keys are derived
// from the complete render input (diagram content, shape, output kind),
// so a cache hit is always byte-identical to a fresh render.
//
// Backends:
//   - [FileCache]: directory of hashed entries, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RenderKey builds a cache key for a render from its complete input.
// Parts are JSON-encoded and hashed, so any change to the diagram, shape,
// or output kind produces a different key.
func RenderKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("render:%s:%s", kind, hex.EncodeToString(sum[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
