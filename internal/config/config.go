package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Repository variants selectable at composition time.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Config is the top-level client configuration. The API base URL and
// version root come from the environment, never computed.
type Config struct {
	// APIBaseURL is the root of the remote service, without the
	// version segment (e.g. http://localhost:8000/api).
	APIBaseURL string `mapstructure:"api_base_url"`

	// APIVersion is the versioned API root segment (e.g. "v1").
	APIVersion string `mapstructure:"api_version"`

	// RequestTimeoutSec bounds a single HTTP round trip. The core
	// imposes no other latency bound.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec"`

	// Mode selects the repository variant: "remote" or "local".
	Mode string `mapstructure:"mode"`

	// LocalDBPath is the SQLite file used by the local variant.
	LocalDBPath string `mapstructure:"local_db_path"`

	// KeyringService names the keyring entry group for credentials.
	KeyringService string `mapstructure:"keyring_service"`

	// KeyringFileDir is the file-backend fallback directory.
	KeyringFileDir string `mapstructure:"keyring_file_dir"`

	// DefaultPageSize is used when a caller passes a zero page size.
	DefaultPageSize int `mapstructure:"default_page_size"`

	// RefreshIntervalSec is the background refresher poll interval.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec"`

	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfigPath returns ~/.config/penguinmail/config.yaml, falling
// back to the working directory when the home dir is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "penguinmail", "config.yaml")
}

func defaults() *Config {
	return &Config{
		APIBaseURL:         "http://localhost:8000/api",
		APIVersion:         "v1",
		RequestTimeoutSec:  30,
		Mode:               ModeRemote,
		LocalDBPath:        filepath.Join(".", "penguinmail.db"),
		KeyringService:     "penguinmail",
		KeyringFileDir:     "~/.config/penguinmail/credentials",
		DefaultPageSize:    50,
		RefreshIntervalSec: 120,
		LogLevel:           "info",
	}
}

// Load reads configuration from the YAML file at path, layered under
// PENGUIN_-prefixed environment variables. A missing file yields the
// defaults. In development a .env file is honored first.
func Load(path string) (*Config, error) {
	if os.Getenv("PENGUIN_ENV") != "production" {
		// Best effort; absence of a .env file is the normal case.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PENGUIN")
	v.AutomaticEnv()

	d := defaults()
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("api_version", d.APIVersion)
	v.SetDefault("request_timeout_sec", d.RequestTimeoutSec)
	v.SetDefault("mode", d.Mode)
	v.SetDefault("local_db_path", d.LocalDBPath)
	v.SetDefault("keyring_service", d.KeyringService)
	v.SetDefault("keyring_file_dir", d.KeyringFileDir)
	v.SetDefault("default_page_size", d.DefaultPageSize)
	v.SetDefault("refresh_interval_sec", d.RefreshIntervalSec)
	v.SetDefault("log_level", d.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		_, pathErr := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !pathErr && !notFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.Mode != ModeRemote && c.Mode != ModeLocal {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeRemote, ModeLocal, c.Mode)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request_timeout_sec must be positive")
	}
	return nil
}

// APIRoot returns the full versioned API root, e.g.
// http://localhost:8000/api/v1.
func (c *Config) APIRoot() string {
	if c.APIVersion == "" {
		return c.APIBaseURL
	}
	return c.APIBaseURL + "/" + c.APIVersion
}
