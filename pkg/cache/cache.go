// Package cache stores rendered diagrams keyed by a hash of their input.
//
// Rendering is deterministic, so a document plus its options always produces
// the same output. The pipeline uses that to skip layout and drawing for
// inputs it has seen before.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several serve instances
//   - [MongoCache]: document-store cache with a TTL index
//   - [NullCache]: disables caching
//
// All backends implement [Cache]. [Open] picks one from a [Config].
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the document together with
// every option that affects the output. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is how long rendered diagrams stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with expiring entries.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Config].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend"`

	// Dir is the FileCache directory.
	Dir string `toml:"dir"`

	// RedisURL is a redis:// URL for RedisCache.
	RedisURL string `toml:"redis_url"`

	// MongoURI, MongoDatabase and MongoCollection configure MongoCache.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Open connects the backend named by cfg.Backend. An empty backend means
// the file cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		c, err = NewFileCache(cfg.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, cfg.RedisURL)
	case BackendMongo:
		c, err = NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case BackendNone:
		c = NewNullCache()
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
