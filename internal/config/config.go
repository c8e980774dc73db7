// Package config loads the layered drawdoc configuration: TOML base
// file, per-environment overlay file, then environment variables, in
// that order of precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/database"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvDrawdocEnv             = "DRAWDOC_ENV"
	EnvDrawdocShutdownTimeout = "DRAWDOC_SHUTDOWN_TIMEOUT"
	EnvDrawdocVersion         = "DRAWDOC_VERSION"
)

var databaseEnv = &database.Env{
	DSN:             "DRAWDOC_DB_DSN",
	Host:            "DRAWDOC_DB_HOST",
	Port:            "DRAWDOC_DB_PORT",
	Name:            "DRAWDOC_DB_NAME",
	User:            "DRAWDOC_DB_USER",
	Password:        "DRAWDOC_DB_PASSWORD",
	SSLMode:         "DRAWDOC_DB_SSL_MODE",
	MaxOpenConns:    "DRAWDOC_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "DRAWDOC_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DRAWDOC_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "DRAWDOC_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "DRAWDOC_STORAGE_CONTAINER_NAME",
	ConnectionString: "DRAWDOC_STORAGE_CONNECTION_STRING",
	MaxListSize:      "DRAWDOC_STORAGE_MAX_LIST_SIZE",
}

var awmEnv = &ClientEnv{
	BaseURL: "DRAWDOC_AWM_BASE_URL",
	Token:   "DRAWDOC_AWM_TOKEN",
	Timeout: "DRAWDOC_AWM_TIMEOUT",
}

var ocrEnv = &ClientEnv{
	BaseURL: "DRAWDOC_OCR_BASE_URL",
	Token:   "DRAWDOC_OCR_TOKEN",
	Timeout: "DRAWDOC_OCR_TIMEOUT",
}

// Config is the root configuration for the drawdoc service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Pipeline        PipelineConfig  `toml:"pipeline"`
	AWM             ClientConfig    `toml:"awm"`
	OCR             ClientConfig    `toml:"ocr"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env reports the active environment name from DRAWDOC_ENV. Unset
// means "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDrawdocEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load builds the effective configuration. A missing config.toml is
// fine; defaults plus environment variables then carry everything.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge copies the overlay's non-zero fields over this config, then
// recurses into every sub-config.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.AWM.Merge(&overlay.AWM)
	c.OCR.Merge(&overlay.OCR)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.AWM.Finalize(awmEnv); err != nil {
		return fmt.Errorf("awm: %w", err)
	}
	if err := c.OCR.Finalize(ocrEnv); err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envOverride(EnvDrawdocShutdownTimeout, &c.ShutdownTimeout)
	envOverride(EnvDrawdocVersion, &c.Version)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	env := os.Getenv(EnvDrawdocEnv)
	if env == "" {
		return ""
	}
	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// duration parses a validated TOML duration string. Callers run after
// Finalize, so a parse failure here means a zero value, not an error.
func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func envOverride(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
