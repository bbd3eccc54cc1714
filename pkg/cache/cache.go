// Package cache stores solved layouts and rendered artifacts.
//
// Every backend implements [Cache]: [NullCache] disables caching,
// [FileCache] is the CLI default (zstd-compressed entries under the XDG cache
// directory) and [RedisCache] is shared between API replicas. Keys come from
// a [Keyer] so that the CLI and the API agree on what identifies a layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero means
// the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for the cached entry kinds. Layouts are deterministic for a given
// problem and option set, so they live long. Artifacts are cheap to rebuild.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
