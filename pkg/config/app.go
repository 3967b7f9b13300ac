package config

import (
	"bytes"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/portraitgrid/pkg/errors"
)

// Backend names for the cache and history stores.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// App is the application configuration file.
type App struct {
	Fonts   FontsConfig   `toml:"fonts"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
}

// FontsConfig controls font discovery.
type FontsConfig struct {
	// Dirs are scanned in addition to the system font directories.
	Dirs []string `toml:"dirs"`

	// Index is the sqlite font index path. Empty uses the data directory.
	Index string `toml:"index"`

	// Default is tried when a requested font cannot be resolved.
	Default string `toml:"default"`
}

// CacheConfig selects where processed photos are cached.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	Redis   string   `toml:"redis_url"`
	TTL     Duration `toml:"ttl"`
}

// HistoryConfig selects where run records are stored.
type HistoryConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// RenderConfig controls batch rendering.
type RenderConfig struct {
	// Workers is the number of categories rendered concurrently.
	Workers int `toml:"workers"`

	// Quality is the JPEG quality of written canvases.
	Quality int `toml:"quality"`

	// OutputDir overrides the default <photo root>/../layouts.
	OutputDir string `toml:"output_dir"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration decodes TOML strings such as "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DefaultApp returns the configuration used when no file exists.
func DefaultApp() App {
	return App{
		Cache:   CacheConfig{Backend: BackendFile, TTL: Duration{30 * 24 * time.Hour}},
		History: HistoryConfig{Backend: BackendFile, Database: "portraitgrid"},
		Render:  RenderConfig{Workers: 1, Quality: 95},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Validate checks backend names and numeric ranges.
func (a App) Validate() error {
	switch a.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend %q (must be none, file or redis)", a.Cache.Backend)
	}
	if a.Cache.Backend == BackendRedis && a.Cache.Redis == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_url")
	}
	switch a.History.Backend {
	case BackendNone, BackendFile, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid history backend %q (must be none, file or mongo)", a.History.Backend)
	}
	if a.History.Backend == BackendMongo && a.History.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "history backend mongo requires mongo_uri")
	}
	if a.Render.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "render workers must be >= 1, got %d", a.Render.Workers)
	}
	if a.Render.Quality < 1 || a.Render.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput, "jpeg quality must be 1..100, got %d", a.Render.Quality)
	}
	return nil
}

// LoadApp reads the TOML file at path over the defaults. A missing file
// returns the defaults; a malformed or invalid one returns the defaults and a
// CONFIG_MALFORMED error.
func LoadApp(path string) (App, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultApp(), nil
	}
	if err != nil {
		return DefaultApp(), errors.Wrap(errors.ErrCodeConfigMalformed, err, "read %s", path)
	}

	a := DefaultApp()
	if err := toml.Unmarshal(data, &a); err != nil {
		return DefaultApp(), errors.Wrap(errors.ErrCodeConfigMalformed, err, "parse %s", path)
	}
	if err := a.Validate(); err != nil {
		return DefaultApp(), errors.Wrap(errors.ErrCodeConfigMalformed, err, "validate %s", path)
	}
	return a, nil
}

// Encode renders a as TOML.
func (a App) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
