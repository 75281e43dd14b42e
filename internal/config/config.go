package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPort              = 8080
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultSyncTimeout       = 10 * time.Second
	DefaultUserAgent         = "roulette/1.0"
	DefaultMetricsHeader     = "x-api-key"
	DefaultLogLevel          = "info"
)

// Environment variables that override file values.
const (
	EnvPort         = "PORT"
	EnvURLPrefix    = "IMAGE_URL_PREFIX"
	EnvMapPath      = "IMAGE_MAP_PATH"
	EnvMapWatch     = "IMAGE_MAP_WATCH"
	EnvSyncURL      = "IMAGE_MAP_SYNC_URL"
	EnvSyncInterval = "IMAGE_MAP_SYNC_INTERVAL"
	EnvLogLevel     = "LOG_LEVEL"
)

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	ImageMap ImageMapConfig `yaml:"image_map"`
	Sync     SyncConfig     `yaml:"sync"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Port is the port the HTTP server listens on.
	Port int `yaml:"port"`

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ImageMapConfig describes where the startup mapping comes from and how
// redirect targets are built.
type ImageMapConfig struct {
	// URLPrefix is joined with a mapped filename to form the redirect target.
	URLPrefix string `yaml:"url_prefix"`

	// Path is a local JSON map file. Empty means the embedded default map.
	Path string `yaml:"path"`

	// Watch reloads Path whenever it is written.
	Watch bool `yaml:"watch"`
}

// SyncConfig controls polling of a remote mapping.
type SyncConfig struct {
	// URL is fetched once per Interval. Empty disables sync.
	URL string `yaml:"url"`

	// Interval is the pause between polls.
	Interval time.Duration `yaml:"interval"`

	// Timeout bounds a single fetch.
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent is sent with every fetch.
	UserAgent string `yaml:"user_agent"`

	// Auth configures credentials for the sync URL.
	Auth SyncAuthConfig `yaml:"auth"`
}

// SyncAuthConfig specifies how the poller authenticates to the sync URL.
type SyncAuthConfig struct {
	// Mode is one of: bearer | apikey | none.
	Mode string `yaml:"mode"`

	// Header is the header name used when Mode == "apikey".
	Header string `yaml:"header"`

	// TokenEnv is the name of the environment variable holding the token or key.
	TokenEnv string `yaml:"token_env"`
}

// Token returns the credential resolved from the environment.
func (a SyncAuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Auth guards /metrics with an API key when KeyEnv resolves to a value.
	Auth MetricsAuthConfig `yaml:"auth"`
}

// MetricsAuthConfig holds the API key settings for /metrics.
type MetricsAuthConfig struct {
	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`

	// Header is the request header carrying the key (default "x-api-key").
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a MetricsAuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a MetricsAuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return DefaultMetricsHeader
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level. Unknown values map to info;
// validate rejects them before this is reached.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SyncEnabled reports whether the remote poller should run.
func (c *Config) SyncEnabled() bool {
	return c.Sync.URL != "" && c.Sync.Interval > 0
}

// Load reads the YAML file at path (if path is non-empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.ImageMap.URLPrefix = strings.TrimRight(cfg.ImageMap.URLPrefix, "/")

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              DefaultPort,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		Sync: SyncConfig{
			Timeout:   DefaultSyncTimeout,
			UserAgent: DefaultUserAgent,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// applyEnv overlays environment variables on top of the file values.
// An empty variable counts as unset.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s %q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup(EnvURLPrefix); ok && v != "" {
		cfg.ImageMap.URLPrefix = v
	}
	if v, ok := lookup(EnvMapPath); ok && v != "" {
		cfg.ImageMap.Path = v
	}
	if v, ok := lookup(EnvMapWatch); ok && v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s %q: %w", EnvMapWatch, v, err)
		}
		cfg.ImageMap.Watch = watch
	}
	if v, ok := lookup(EnvSyncURL); ok && v != "" {
		cfg.Sync.URL = v
	}
	if v, ok := lookup(EnvSyncInterval); ok && v != "" {
		secs, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%s must be whole seconds, got %q", EnvSyncInterval, v)
		}
		cfg.Sync.Interval = time.Duration(secs) * time.Second
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.ImageMap.URLPrefix == "" {
		return fmt.Errorf("image_map.url_prefix is required (or set %s)", EnvURLPrefix)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range [1, 65535]", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if cfg.ImageMap.Watch && cfg.ImageMap.Path == "" {
		return fmt.Errorf("image_map.watch requires image_map.path")
	}
	if cfg.Sync.URL != "" && cfg.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive when sync.url is set")
	}
	if cfg.Sync.Timeout < 0 {
		return fmt.Errorf("sync.timeout must not be negative")
	}
	switch cfg.Sync.Auth.Mode {
	case "bearer", "none", "":
	case "apikey":
		if cfg.Sync.Auth.Header == "" {
			return fmt.Errorf("sync.auth.header is required for apikey mode")
		}
	default:
		return fmt.Errorf("sync.auth.mode %q unknown: want bearer|apikey|none", cfg.Sync.Auth.Mode)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q unknown: want debug|info|warn|error", cfg.Log.Level)
	}
	return nil
}
