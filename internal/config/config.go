// Package config loads glazingpm settings: built-in defaults, then a YAML
// file, then GLAZINGPM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/logging"
	"github.com/alexanderramin/glazingpm/internal/scheduler"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked for in the working directory.
	FileName = "glazingpm.yaml"
	// EnvFile names an explicit config file.
	EnvFile = "GLAZINGPM_CONFIG"
)

// Config is the complete glazingpm configuration.
type Config struct {
	// DBPath is the SQLite registry file; ":memory:" keeps nothing.
	DBPath string `yaml:"db_path"`
	// CatalogDir replaces the built-in reference tables when set.
	CatalogDir string              `yaml:"catalog_dir"`
	Log        logging.Config      `yaml:"log"`
	Server     ServerConfig        `yaml:"server"`
	Bands      contract.Bands      `yaml:"bands"`
	Durations  scheduler.Durations `yaml:"durations"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	// RateLimit is the sustained requests per second across all clients;
	// zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath: DefaultDBPath(),
		Log:    logging.Config{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			RateLimit:    10,
			RateBurst:    20,
		},
		Bands:     contract.DefaultBands(),
		Durations: scheduler.DefaultDurations(),
	}
}

// DefaultDBPath is ~/.glazingpm/glazingpm.db, or ./glazingpm.db when the
// home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "glazingpm.db"
	}
	return filepath.Join(home, ".glazingpm", "glazingpm.db")
}

// Load builds the configuration. path, or GLAZINGPM_CONFIG when path is
// empty, must exist if given; otherwise ./glazingpm.yaml is read when
// present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvFile)
		explicit = path != ""
	}
	if !explicit {
		path = FileName
	}

	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file onto cfg; absent keys keep their values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := []struct {
		env string
		dst *string
	}{
		{"GLAZINGPM_DB", &c.DBPath},
		{"GLAZINGPM_CATALOG_DIR", &c.CatalogDir},
		{"GLAZINGPM_ADDR", &c.Server.Addr},
		{"GLAZINGPM_LOG_LEVEL", &c.Log.Level},
		{"GLAZINGPM_LOG_FORMAT", &c.Log.Format},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("GLAZINGPM_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GLAZINGPM_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	if v := os.Getenv("GLAZINGPM_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GLAZINGPM_RATE_BURST: %w", err)
		}
		c.Server.RateBurst = n
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	verr := &domain.ValidationError{}
	if c.DBPath == "" {
		verr.Add("db_path", "is required")
	}
	c.Bands.Validate(verr, "bands.")
	if c.Durations.RetentionReleaseWeeks < 0 {
		verr.Add("durations.retention_release_weeks", "must not be negative")
	}
	if c.Durations.InstallStep <= 0 {
		verr.Add("durations.install_step", "must be positive")
	}
	if c.Server.RateLimit < 0 {
		verr.Add("server.rate_limit", "must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		verr.Add("server.rate_burst", "must be at least 1 when rate_limit is set")
	}
	return verr.OrNil()
}
