// Package config loads objectgraph settings from objectgraph.toml, the
// environment, and defaults.
//
// Lookup order for the config file is the working directory, then
// $XDG_CONFIG_HOME/objectgraph (or ~/.config/objectgraph). Every key can be
// overridden by an OBJECTGRAPH_* environment variable, with dots replaced by
// underscores (OBJECTGRAPH_CACHE_BACKEND, OBJECTGRAPH_REDIS_ADDR, ...).
package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/objectgraph/pkg/cache"
	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
)

const (
	// AppName is used for directories, the config file name, and the env prefix.
	AppName = "objectgraph"

	envPrefix = "OBJECTGRAPH"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

var backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Config is the merged objectgraph configuration.
type Config struct {
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Render RenderConfig `mapstructure:"render"`
	Server ServerConfig `mapstructure:"server"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// MongoConfig configures the mongo cache backend.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// RenderConfig holds defaults for render flags.
type RenderConfig struct {
	Formats  []string `mapstructure:"formats"`
	Merge    bool     `mapstructure:"merge"`
	Humanize bool     `mapstructure:"humanize"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// Load reads the configuration. An explicit path must exist; otherwise a
// missing config file is not an error and defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config file")
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal config")
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	cacheDir, err := CacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), AppName)
	}
	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", cacheDir)
	v.SetDefault("cache.ttl", pipeline.DefaultTTL)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", cache.DefaultRedisPrefix)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", cache.DefaultMongoDatabase)
	v.SetDefault("mongo.collection", cache.DefaultMongoCollection)
	v.SetDefault("render.formats", []string{pipeline.DefaultFormat})
	v.SetDefault("render.merge", true)
	v.SetDefault("render.humanize", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_bytes", 10<<20)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput,
			"cache.backend must be one of %s, got %q", strings.Join(backends, ", "), c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.dir is required for the file backend")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}
	return nil
}

// OpenCache connects to the configured cache backend. noCache forces the
// null cache.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case BackendFile:
		return cache.NewFileCache(c.Cache.Dir)
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return mc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// CacheDir returns the default cache directory using the XDG standard
// (~/.cache/objectgraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ConfigDir returns the config directory using the XDG standard
// (~/.config/objectgraph/).
func ConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}
