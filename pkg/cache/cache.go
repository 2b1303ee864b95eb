// Package cache stores pipeline results between runs.
//
// # Overview
//
// Rendering a large schema repeatedly is wasteful when neither the input
// nor the options changed. The pipeline hashes its input graph and looks up
// transformed graphs and rendered artifacts under keys derived from that
// hash (see [Keyer]).
//
// # Backends
//
//   - [NullCache]: stores nothing; caching disabled
//   - [FileCache]: JSON entry files below a directory, for CLI use
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: shared cache backed by a MongoDB collection with a TTL index
//
// All backends implement [Cache]. A miss is reported as (nil, false, nil);
// errors are reserved for backend failures.
//
// # Keys
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(graphHash, cache.ArtifactKeyOpts{Format: "svg"})
//
// [NewScopedKeyer] prefixes every key, so several deployments can share one
// backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
	// Close releases backend resources.
	Close() error
}

// NullCache backs the "none" backend: every lookup misses and writes are
// dropped, so each run recomputes its graph and artifacts.
type NullCache struct{}

// NewNullCache returns the cache used when caching is disabled.
func NewNullCache() Cache {
	return &NullCache{}
}

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

// Clear always reports zero removed entries.
func (*NullCache) Clear(context.Context) (int, error) { return 0, nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
