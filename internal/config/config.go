// Package config loads spaceforge settings.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file at $XDG_CONFIG_HOME/spaceforge/config.toml, or the
//     path given with --config
//  3. SPACEFORGE_* environment variables
//
// Example file:
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/spaceforge/layouts.db"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//	prefix = "staging:"
//
//	[server]
//	addr = ":8080"
//
//	[canvas]
//	width = 1000
//	height = 1000
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spaceforge/pkg/cache"
	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
	"github.com/matzehuels/spaceforge/pkg/store"
)

const appName = "spaceforge"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

type Config struct {
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Canvas CanvasConfig `toml:"canvas"`
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
	// Prefix scopes keys so several deployments can share one Redis.
	Prefix string `toml:"prefix"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CanvasConfig is the canvas used when an imported document carries none,
// such as a fabric.js export.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Duration is a time.Duration written as a string ("12h", "30m") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:       store.BackendFile,
			MongoDatabase: store.DefaultMongoDatabase,
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{Addr: ":8080"},
		Canvas: CanvasConfig{Width: 1000, Height: 1000},
	}
}

// DefaultPath returns the config file location honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the file cache location honouring XDG_CACHE_HOME.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the configuration. An empty path means DefaultPath, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		if err != nil && (explicit || !os.IsNotExist(err)) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Store.Backend = getEnv("SPACEFORGE_STORE_BACKEND", c.Store.Backend)
	c.Store.Path = getEnv("SPACEFORGE_STORE_PATH", c.Store.Path)
	c.Store.MongoURI = getEnv("SPACEFORGE_MONGO_URI", c.Store.MongoURI)
	c.Store.MongoDatabase = getEnv("SPACEFORGE_MONGO_DATABASE", c.Store.MongoDatabase)

	c.Cache.Backend = getEnv("SPACEFORGE_CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Dir = getEnv("SPACEFORGE_CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisAddr = getEnv("SPACEFORGE_REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnv("SPACEFORGE_REDIS_PASSWORD", c.Cache.RedisPassword)
	c.Cache.RedisDB = getEnvAsInt("SPACEFORGE_REDIS_DB", c.Cache.RedisDB)
	c.Cache.Prefix = getEnv("SPACEFORGE_CACHE_PREFIX", c.Cache.Prefix)
	if v := os.Getenv("SPACEFORGE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL.Duration = d
		}
	}

	c.Server.Addr = getEnv("SPACEFORGE_ADDR", c.Server.Addr)
	c.Canvas.Width = getEnvAsFloat("SPACEFORGE_CANVAS_WIDTH", c.Canvas.Width)
	c.Canvas.Height = getEnvAsFloat("SPACEFORGE_CANVAS_HEIGHT", c.Canvas.Height)
}

// Validate checks backend names and the default canvas.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "config: unknown store backend %q", c.Store.Backend)
	}
	if strings.EqualFold(c.Store.Backend, store.BackendMongo) && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "config: store.mongo_uri is required for the mongo backend")
	}
	switch strings.ToLower(c.Cache.Backend) {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "config: cache.ttl must not be negative")
	}
	if _, err := geom.NewCanvas(c.Canvas.Width, c.Canvas.Height); err != nil {
		return fmt.Errorf("config: canvas: %w", err)
	}
	return nil
}

// DefaultCanvas returns the configured fallback canvas.
func (c *Config) DefaultCanvas() geom.Canvas {
	return geom.Canvas{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// StoreConfig converts the [store] section for store.Open.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}

// OpenStore opens the configured layout store, instrumented for
// observability.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.StoreConfig())
	if err != nil {
		return nil, err
	}
	return store.Instrument(st), nil
}

// OpenCache opens the configured cache. noCache forces a NullCache.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch strings.ToLower(c.Cache.Backend) {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		})
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// Keyer returns the cache keyer, scoped by [cache] prefix when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultVal
}
