// Package config loads the service configuration from a TOML file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the complete service configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Editor  EditorConfig  `toml:"editor"`
	Report  ReportConfig  `toml:"report"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	MaxConnections      int    `toml:"max_connections"` // 0 = unlimited
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// StorageConfig selects and locates the record store
type StorageConfig struct {
	Backend string `toml:"backend"` // json, sqlite
	Path    string `toml:"path"`
}

// AuthConfig holds the login credentials and session settings
type AuthConfig struct {
	Username             string `toml:"username"`
	Password             string `toml:"password"`
	PasswordHash         string `toml:"password_hash"` // bcrypt; takes precedence over password
	SessionSecret        string `toml:"session_secret"`
	SessionMaxAgeSeconds int    `toml:"session_max_age_seconds"` // 0 = browser session
	SecureCookies        bool   `toml:"secure_cookies"`
}

// EditorConfig controls how submissions are applied
type EditorConfig struct {
	Mode string `toml:"mode"` // replace, merge
}

// ReportConfig controls spreadsheet exports
type ReportConfig struct {
	ExportDir           string `toml:"export_dir"`
	RespectFieldFilter  bool   `toml:"respect_field_filter"`
	SelectionTTLMinutes int    `toml:"selection_ttl_minutes"`
}

// SelectionTTL returns how long a query selection stays available for export
func (r ReportConfig) SelectionTTL() time.Duration {
	return time.Duration(r.SelectionTTLMinutes) * time.Minute
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                10000,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Backend: "json",
			Path:    "data.json",
		},
		Auth: AuthConfig{
			Username:      "foe2026",
			Password:      "foe2026",
			SessionSecret: "foe_secret_key",
		},
		Editor: EditorConfig{
			Mode: "replace",
		},
		Report: ReportConfig{
			ExportDir:           "exports",
			SelectionTTLMinutes: 720,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if secret := os.Getenv("READINESS_SESSION_SECRET"); secret != "" {
		cfg.Auth.SessionSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid storage backend: %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}

	switch c.Editor.Mode {
	case "replace", "merge":
	default:
		return fmt.Errorf("invalid editor mode: %q", c.Editor.Mode)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Auth.SessionSecret == "" {
		return errors.New("session secret is required")
	}
	return nil
}
