// Package config loads discovery settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abelbrown/discovery/internal/anilist"
)

// EnvPrefix prefixes environment overrides, e.g. DISCOVERY_UI_THEME.
const EnvPrefix = "DISCOVERY"

// Config holds application configuration.
type Config struct {
	AniList  AniListConfig  `mapstructure:"anilist"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// AniListConfig holds catalog API settings.
type AniListConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// RefreshConfig holds per-category refresh intervals in milliseconds.
// Zero means fetch once per session.
type RefreshConfig struct {
	PopularMs  int64 `mapstructure:"popular_ms"`
	TrendingMs int64 `mapstructure:"trending_ms"`
	SeasonalMs int64 `mapstructure:"seasonal_ms"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds the event log location.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme       string  `mapstructure:"theme"`
	QueueHeight float64 `mapstructure:"queue_height"` // fraction of the terminal height
}

// DataDir returns ~/.discovery.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".discovery")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "discovery", "config.toml")
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("anilist.endpoint", anilist.DefaultEndpoint)
	v.SetDefault("anilist.timeout", 30*time.Second)
	v.SetDefault("anilist.requests_per_minute", 80)
	v.SetDefault("refresh.popular_ms", 0)
	v.SetDefault("refresh.trending_ms", 3600000)
	v.SetDefault("refresh.seasonal_ms", 0)
	v.SetDefault("database.path", filepath.Join(DataDir(), "discovery.db"))
	v.SetDefault("log.path", filepath.Join(DataDir(), "events.jsonl"))
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.queue_height", 0.75)

	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. path overrides $DISCOVERY_CONFIG, which
// overrides the default location. A missing file is not an error.
func Load(path string) (Config, error) {
	v := newViper()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the screen cannot run with.
func (c Config) Validate() error {
	if c.AniList.RequestsPerMinute < 0 {
		return fmt.Errorf("anilist.requests_per_minute must be >= 0, got %d", c.AniList.RequestsPerMinute)
	}
	for name, ms := range map[string]int64{
		"refresh.popular_ms":  c.Refresh.PopularMs,
		"refresh.trending_ms": c.Refresh.TrendingMs,
		"refresh.seasonal_ms": c.Refresh.SeasonalMs,
	} {
		if ms < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, ms)
		}
	}
	if c.UI.QueueHeight <= 0 || c.UI.QueueHeight > 1 {
		return fmt.Errorf("ui.queue_height must be in (0, 1], got %g", c.UI.QueueHeight)
	}
	return nil
}

// RefreshFor returns the refresh interval of cat. Zero means fetch once.
func (c Config) RefreshFor(cat anilist.Category) time.Duration {
	var ms int64
	switch cat {
	case anilist.Popular:
		ms = c.Refresh.PopularMs
	case anilist.Trending:
		ms = c.Refresh.TrendingMs
	case anilist.Seasonal:
		ms = c.Refresh.SeasonalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("anilist.endpoint", cfg.AniList.Endpoint)
	v.Set("anilist.timeout", cfg.AniList.Timeout.String())
	v.Set("anilist.requests_per_minute", cfg.AniList.RequestsPerMinute)
	v.Set("refresh.popular_ms", cfg.Refresh.PopularMs)
	v.Set("refresh.trending_ms", cfg.Refresh.TrendingMs)
	v.Set("refresh.seasonal_ms", cfg.Refresh.SeasonalMs)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.queue_height", cfg.UI.QueueHeight)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
