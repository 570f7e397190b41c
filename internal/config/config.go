package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrMissingToken is returned by Validate when no API token is configured.
var ErrMissingToken = errors.New("TOGGL_API_TOKEN is not set")

const (
	DefaultBaseURL        = "https://api.track.toggl.com"
	DefaultAPIVersion     = "v9"
	DefaultReportsVersion = "v3"
	DefaultBronzePath     = "./data/bronze"
	DefaultSilverPath     = "./data/silver"
)

// Config is the root configuration shared by the ingest and aggregate jobs.
type Config struct {
	Toggl    TogglConfig    `toml:"toggl"`
	Datalake DatalakeConfig `toml:"datalake"`
}

// TogglConfig holds the API credential and the endpoint layout. The path
// scheme has changed between API generations, so versions stay configurable.
type TogglConfig struct {
	APIToken       string `toml:"api_token"`
	BaseURL        string `toml:"base_url"`
	APIVersion     string `toml:"api_version"`
	ReportsVersion string `toml:"reports_version"`
}

// DatalakeConfig holds the default roots of the bronze and silver tiers.
type DatalakeConfig struct {
	BronzePath string `toml:"bronze_path"`
	SilverPath string `toml:"silver_path"`
}

func DefaultConfig() Config {
	return Config{
		Toggl: TogglConfig{
			BaseURL:        DefaultBaseURL,
			APIVersion:     DefaultAPIVersion,
			ReportsVersion: DefaultReportsVersion,
		},
		Datalake: DatalakeConfig{
			BronzePath: DefaultBronzePath,
			SilverPath: DefaultSilverPath,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file at
// path and finally the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	fillDefaults(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TOGGL_API_TOKEN"); v != "" {
		cfg.Toggl.APIToken = v
	}
	if v := os.Getenv("TOGGL_BASE_URL"); v != "" {
		cfg.Toggl.BaseURL = v
	}
	if v := os.Getenv("TOGGL_API_VERSION"); v != "" {
		cfg.Toggl.APIVersion = v
	}
	if v := os.Getenv("TOGGL_REPORTS_VERSION"); v != "" {
		cfg.Toggl.ReportsVersion = v
	}
}

// fillDefaults restores defaults for keys a partial config file left empty.
func fillDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Toggl.BaseURL == "" {
		cfg.Toggl.BaseURL = def.Toggl.BaseURL
	}
	if cfg.Toggl.APIVersion == "" {
		cfg.Toggl.APIVersion = def.Toggl.APIVersion
	}
	if cfg.Toggl.ReportsVersion == "" {
		cfg.Toggl.ReportsVersion = def.Toggl.ReportsVersion
	}
	if cfg.Datalake.BronzePath == "" {
		cfg.Datalake.BronzePath = def.Datalake.BronzePath
	}
	if cfg.Datalake.SilverPath == "" {
		cfg.Datalake.SilverPath = def.Datalake.SilverPath
	}
}

// Validate checks the settings the ingest job cannot run without.
func (c *Config) Validate() error {
	if c.Toggl.APIToken == "" {
		return ErrMissingToken
	}
	return nil
}
