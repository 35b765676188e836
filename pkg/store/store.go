package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/blockgrid/pkg/errors"
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value stored under key. found is false, with a nil
	// error, when the key does not exist.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the backend names accepted by [Open].
func Backends() []string {
	return []string{BackendMemory, BackendNull, BackendFile, BackendSQLite, BackendRedis, BackendMongo}
}

// Config selects and configures a backend.
type Config struct {
	Backend    string      `toml:"backend"`
	Dir        string      `toml:"dir"`
	SQLitePath string      `toml:"sqlite_path"`
	Redis      RedisConfig `toml:"redis"`
	Mongo      MongoConfig `toml:"mongo"`
}

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendNull:
		return NewNullStore(), nil
	case BackendFile:
		return NewDiskStore(cfg.Dir)
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoStore(ctx, cfg.Mongo)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want one of %v)", cfg.Backend, Backends())
}

// Describe returns a short human-readable location for the configured
// backend, such as a directory or an address.
func Describe(cfg Config) string {
	switch cfg.Backend {
	case BackendFile:
		return cfg.Dir
	case BackendSQLite:
		return cfg.SQLitePath
	case BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.Redis.Addr, cfg.Redis.DB)
	case BackendMongo:
		return fmt.Sprintf("%s (%s.%s)", cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	case BackendNull:
		return "disabled"
	}
	return "in-memory"
}

func storeErr(err error, op, key string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeStore, err, "%s %q", op, key)
}
