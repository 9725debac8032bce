// Package config handles global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/refsift/config.yml.
// Zero values fall back to defaults at load time.
type Config struct {
	DBPath        string  `yaml:"db_path,omitempty"`        // SQLite database location
	OutputDir     string  `yaml:"output_dir,omitempty"`     // Where export files land
	ExportFormat  string  `yaml:"export_format,omitempty"`  // bibtex, ris, csv, json
	Workers       int     `yaml:"workers,omitempty"`        // Batch worker pool size
	MinConfidence float64 `yaml:"min_confidence,omitempty"` // Records below this are flagged, not stored-filtered

	CrossrefMailto string  `yaml:"crossref_mailto,omitempty"` // Polite-pool contact address
	APIRateLimit   float64 `yaml:"api_rate_limit,omitempty"`  // Requests per second for enrichment
}

const (
	// ConfigDirName is the directory under XDG_CONFIG_HOME.
	ConfigDirName = "refsift"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yml"

	// Defaults applied to zero-valued fields.
	DefaultExportFormat = "bibtex"
	DefaultWorkers      = 4
	DefaultRateLimit    = 5.0
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the config file path. Respects XDG_CONFIG_HOME, defaults to
// ~/.config/refsift/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName, ConfigFileName)
}

// Default returns a config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DBPath = filepath.Join(home, ".local", "share", ConfigDirName, "refs.db")
		} else {
			c.DBPath = "refs.db"
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.ExportFormat == "" {
		c.ExportFormat = DefaultExportFormat
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.APIRateLimit == 0 {
		c.APIRateLimit = DefaultRateLimit
	}
}

// Load reads the global configuration file. A missing file yields the
// defaults, not an error.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			configCache = cfg
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DBPath = ExpandTilde(cfg.DBPath)
	cfg.OutputDir = ExpandTilde(cfg.OutputDir)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configCache = &cfg
	return &cfg, nil
}

// Save writes the configuration file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	configCache = nil
}

// Validate checks value ranges and enums.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > 32 {
		return fmt.Errorf("workers must be between 1 and 32, got %d", c.Workers)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0 and 1, got %g", c.MinConfidence)
	}
	switch c.ExportFormat {
	case "bibtex", "ris", "csv", "json":
	default:
		return fmt.Errorf("invalid export_format: %s", c.ExportFormat)
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("api_rate_limit must be positive, got %g", c.APIRateLimit)
	}
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
