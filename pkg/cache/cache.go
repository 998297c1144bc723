// Package cache provides byte-level caching for rendered family-tree artifacts.
//
// # Overview
//
// Rendering a large tree to SVG (and especially through Graphviz) is the
// slowest step of the pipeline, and the same person list is typically
// rendered many times with identical options. The [Cache] interface stores
// opaque artifacts under deterministic keys produced by a [Keyer].
//
// Implementations:
//
//   - [FileCache]: one JSON file per entry under the user cache directory (CLI)
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are content addressed. A scene key hashes the dataset hash together
// with every option that changes the scene (root, mode, generations, node
// geometry); an artifact key hashes the scene key with the output format and
// viewport. Because the dataset hash covers the whole person list, any edit
// to the list produces new keys and stale entries are simply never read.
//
//	keyer := cache.NewDefaultKeyer()
//	sk := keyer.SceneKey(datasetHash, cache.SceneKeyOpts{Root: "@I1@", Mode: "ancestors", Generations: 4})
//	ak := keyer.ArtifactKey(sk, cache.ArtifactKeyOpts{Format: "svg", Width: 1200, Height: 800})
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte slices under string keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour
