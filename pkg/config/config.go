// Package config loads emind settings from TOML.
//
// Every field has a default from [Default]; a file only needs the keys it
// changes:
//
//	[layout]
//	balance_threshold = 4
//
//	[viewport]
//	transition = "400ms"
//
//	[export]
//	padding = 80
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Gor-c/emind/pkg/errors"
	"github.com/Gor-c/emind/pkg/export"
	"github.com/Gor-c/emind/pkg/layout"
	"github.com/Gor-c/emind/pkg/scene"
	"github.com/Gor-c/emind/pkg/viewport"
)

// AppName names the config and cache directories.
const AppName = "emind"

// Config is the complete set of tunables.
type Config struct {
	Layout   layout.Options   `toml:"layout"`
	Theme    scene.Theme      `toml:"theme"`
	Viewport viewport.Options `toml:"viewport"`
	Export   export.Options   `toml:"export"`
	Cache    Cache            `toml:"cache"`
	Server   Server           `toml:"server"`
}

// Cache configures the rendered-artifact cache.
type Cache struct {
	Enabled bool          `toml:"enabled"`
	TTL     time.Duration `toml:"ttl"`
	// Dir overrides the XDG cache directory.
	Dir string `toml:"dir"`
}

// Server configures `emind serve`.
type Server struct {
	Addr          string        `toml:"addr"`
	MaxBodyBytes  int64         `toml:"max_body_bytes"`
	RenderTimeout time.Duration `toml:"render_timeout"`
	// Width and Height are the viewport used when a request names none.
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:   layout.DefaultOptions(),
		Theme:    scene.DefaultTheme(),
		Viewport: viewport.DefaultOptions(),
		Export:   export.DefaultOptions(),
		Cache: Cache{
			Enabled: true,
			TTL:     7 * 24 * time.Hour,
		},
		Server: Server{
			Addr:          ":8080",
			MaxBodyBytes:  1 << 20,
			RenderTimeout: time.Minute,
			Width:         1200,
			Height:        800,
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_body_bytes must be positive")
	}
	if c.Server.RenderTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server render_timeout must be positive")
	}
	if c.Server.Width <= 0 || c.Server.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server viewport must be positive, got %dx%d", c.Server.Width, c.Server.Height)
	}
	return nil
}

// Load overlays the TOML file at path on the defaults and validates the
// result. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at [Path] if it exists, or returns the
// defaults.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Path returns the config file location using the XDG standard
// (~/.config/emind/config.toml).
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory: Cache.Dir if set, else the XDG
// cache location (~/.cache/emind/).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
