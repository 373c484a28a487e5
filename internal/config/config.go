// Package config loads floorstack settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/floorstack/config.toml (falling back to
// ~/.config/floorstack/config.toml). A missing file yields [Default]. Command
// line flags override whatever the file sets.
//
//	[resolve]
//	strict = false
//	unknown_fixtures = "ignore"
//	concurrency = 4
//
//	[cache]
//	backend = "redis"
//	scope = "staging"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/resolve"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

const (
	appName          = "floorstack"
	fileName         = "config.toml"
	defaultAddr      = ":8080"
	defaultBodyLimit = 32 << 20
)

// Config is the parsed configuration file.
type Config struct {
	Resolve ResolveConfig `toml:"resolve"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// ResolveConfig holds resolver defaults.
type ResolveConfig struct {
	Strict          bool   `toml:"strict"`
	UnknownFixtures string `toml:"unknown_fixtures"`
	Concurrency     int    `toml:"concurrency"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Scope         string   `toml:"scope"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	TTL           Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Resolve: ResolveConfig{
			UnknownFixtures: resolve.DefaultUnknownFixtures,
		},
		Cache: CacheConfig{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr:         defaultAddr,
			MaxBodyBytes: defaultBodyLimit,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, fileName), nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error. An empty path means [Path].
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := resolve.ValidateUnknownFixtures(c.Resolve.UnknownFixtures); err != nil {
		return err
	}
	if c.Resolve.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "resolve.concurrency must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid cache.backend: %q (must be one of: file, redis, mongo, none)", c.Cache.Backend)
	}
	if c.Cache.Scope != "" {
		if err := errors.ValidateIdentifier("cache scope", c.Cache.Scope); err != nil {
			return err
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "server.max_body_bytes must be positive")
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return sb.String(), nil
}
