package config

import (
	"fmt"
	"net/url"
	"time"
)

// ClientConfig holds connection settings for an upstream HTTP service.
type ClientConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`
}

// ClientEnv maps client config fields to environment variable names.
type ClientEnv struct {
	BaseURL string
	Token   string
	Timeout string
}

// TimeoutDuration returns the parsed request timeout.
func (c *ClientConfig) TimeoutDuration() time.Duration {
	return duration(c.Timeout)
}

// Finalize applies defaults, then environment overrides, then validates.
func (c *ClientConfig) Finalize(env *ClientEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge copies the overlay's non-zero fields over this config.
func (c *ClientConfig) Merge(overlay *ClientConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ClientConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *ClientConfig) loadEnv(env *ClientEnv) {
	envOverride(env.BaseURL, &c.BaseURL)
	envOverride(env.Token, &c.Token)
	envOverride(env.Timeout, &c.Timeout)
}

func (c *ClientConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
