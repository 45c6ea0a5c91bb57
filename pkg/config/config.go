// Package config loads xdsmview settings from a TOML file.
//
// The config file lives at $XDG_CONFIG_HOME/xdsmview/config.toml (or
// ~/.config/xdsmview/config.toml) and can be overridden with the
// XDSMVIEW_CONFIG environment variable. All fields are optional; a missing
// file yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all user-tunable settings.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// RedisAddr is the redis host:port.
	RedisAddr string `toml:"redis_addr"`
	// RedisPassword authenticates against redis, if set.
	RedisPassword string `toml:"redis_password"`
	// RedisDB selects the redis database number.
	RedisDB int `toml:"redis_db"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of "memory" or "mongo".
	Backend string `toml:"backend"`
	// MongoURI is the MongoDB connection string.
	MongoURI string `toml:"mongo_uri"`
	// MongoDatabase names the database (default "xdsmview").
	MongoDatabase string `toml:"mongo_database"`
}

// RenderConfig holds render defaults applied when flags are not given.
type RenderConfig struct {
	// Format is the default output format (dot, svg, png, json).
	Format string `toml:"format"`
	// ShowVariables labels edges with coupling variables by default.
	ShowVariables bool `toml:"show_variables"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Cache:  CacheConfig{Backend: "file"},
		Store:  StoreConfig{Backend: "memory"},
		Render: RenderConfig{Format: "svg"},
		Serve:  ServeConfig{Addr: ":8080"},
	}
}

// Path returns the config file location, honoring XDSMVIEW_CONFIG and
// XDG_CONFIG_HOME.
func Path() (string, error) {
	if explicit := os.Getenv("XDSMVIEW_CONFIG"); explicit != "" {
		return explicit, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "xdsmview", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "xdsmview", "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist. Fields absent from the file keep their default values.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads a specific config file. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "", "memory", "mongo":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}
