package openapi

import "os"

// Config names the document: the title and description served in the
// info block.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv names the environment variables that may override each
// field.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults, then environment overrides. There is
// nothing to validate; any strings serve.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge copies the overlay's non-zero fields over this config.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Drawdoc API"
	}
	if c.Description == "" {
		c.Description = "Closing document pipeline orchestration for construction loans."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	override(env.Title, &c.Title)
	override(env.Description, &c.Description)
}

func override(name string, dst *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
