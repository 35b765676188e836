// Package config loads blockgrid settings from a TOML file and the
// environment.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. The config file (default $XDG_CONFIG_HOME/blockgrid/config.toml)
//  3. BLOCKGRID_* environment variables
//
// A missing config file is not an error. An example file:
//
//	workspace = "default"
//	unique_items = true
//
//	[store]
//	backend = "sqlite"
//	sqlite_path = "/var/lib/blockgrid/grids.db"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"

	bgerrors "github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// AppName names the config and data directories.
const AppName = "blockgrid"

// Environment variables that override file settings.
const (
	EnvStore       = "BLOCKGRID_STORE"
	EnvWorkspace   = "BLOCKGRID_WORKSPACE"
	EnvRedisAddr   = "BLOCKGRID_REDIS_ADDR"
	EnvMongoURI    = "BLOCKGRID_MONGO_URI"
	EnvUniqueItems = "BLOCKGRID_UNIQUE_ITEMS"
)

// Config is the full set of settings.
type Config struct {
	Workspace   string       `toml:"workspace"`
	UniqueItems bool         `toml:"unique_items"`
	Store       store.Config `toml:"store"`
	Server      ServerConfig `toml:"server"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings: the "default" workspace backed by the
// file store under the data directory.
func Default() Config {
	data, err := DataDir()
	if err != nil {
		data = filepath.Join(os.TempDir(), AppName)
	}
	return Config{
		Workspace: "default",
		Store: store.Config{
			Backend:    store.BackendFile,
			Dir:        filepath.Join(data, "store"),
			SQLitePath: filepath.Join(data, "blockgrid.db"),
			Redis:      store.RedisConfig{Addr: "localhost:6379"},
			Mongo: store.MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   AppName,
				Collection: "kv",
			},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the config file at path on top of [Default] and applies
// environment overrides. An empty path means [Path]. The file may be missing.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, bgerrors.Wrap(bgerrors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvWorkspace); ok && v != "" {
		c.Workspace = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Store.Redis.Addr = v
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Store.Mongo.URI = v
	}
	if v, ok := lookup(EnvUniqueItems); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return bgerrors.New(bgerrors.ErrCodeInvalidInput, "%s: %q is not a boolean", EnvUniqueItems, v)
		}
		c.UniqueItems = b
	}
	return nil
}

// Validate checks the workspace name and the store settings.
func (c Config) Validate() error {
	if err := bgerrors.ValidateWorkspaceName(c.Workspace); err != nil {
		return err
	}
	if !slices.Contains(store.Backends(), c.Store.Backend) {
		return bgerrors.New(bgerrors.ErrCodeInvalidInput, "unknown store backend %q (want one of %v)", c.Store.Backend, store.Backends())
	}
	switch c.Store.Backend {
	case store.BackendFile:
		if c.Store.Dir == "" {
			return bgerrors.New(bgerrors.ErrCodeInvalidInput, "store.dir is required for the file backend")
		}
	case store.BackendSQLite:
		if c.Store.SQLitePath == "" {
			return bgerrors.New(bgerrors.ErrCodeInvalidInput, "store.sqlite_path is required for the sqlite backend")
		}
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return bgerrors.New(bgerrors.ErrCodeInvalidInput, "store.redis.addr is required for the redis backend")
		}
	case store.BackendMongo:
		if c.Store.Mongo.URI == "" {
			return bgerrors.New(bgerrors.ErrCodeInvalidInput, "store.mongo.uri is required for the mongo backend")
		}
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
