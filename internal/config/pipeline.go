package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineMaxRetries     = "DRAWDOC_PIPELINE_MAX_RETRIES"
	EnvPipelineBaseDelay      = "DRAWDOC_PIPELINE_BASE_DELAY"
	EnvPipelineExtractWorkers = "DRAWDOC_PIPELINE_EXTRACT_WORKERS"
	EnvPipelineFieldMap       = "DRAWDOC_PIPELINE_FIELD_MAP"
	EnvPipelineGateRules      = "DRAWDOC_PIPELINE_GATE_RULES"
)

// PollConfig holds the polling budget for one remote operation kind.
type PollConfig struct {
	Interval  string `toml:"interval"`
	MaxChecks int    `toml:"max_checks"`
}

// IntervalDuration returns the parsed poll interval.
func (p *PollConfig) IntervalDuration() time.Duration {
	return duration(p.Interval)
}

// PipelineConfig holds stage execution parameters: retry budget, extraction
// concurrency, per-kind polling budgets, and paths to the field map and gate
// rule files. Empty paths select the built-in defaults.
type PipelineConfig struct {
	MaxRetries     int                   `toml:"max_retries"`
	BaseDelay      string                `toml:"base_delay"`
	ExtractWorkers int                   `toml:"extract_workers"`
	FieldMap       string                `toml:"field_map"`
	GateRules      string                `toml:"gate_rules"`
	Poll           map[string]PollConfig `toml:"poll"`
}

// BaseDelayDuration returns the parsed retry base delay.
func (c *PipelineConfig) BaseDelayDuration() time.Duration {
	return duration(c.BaseDelay)
}

// Finalize applies defaults, then environment overrides, then validates.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge copies the overlay's non-zero fields over this config. Poll
// budgets merge per operation kind.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.BaseDelay != "" {
		c.BaseDelay = overlay.BaseDelay
	}
	if overlay.ExtractWorkers != 0 {
		c.ExtractWorkers = overlay.ExtractWorkers
	}
	if overlay.FieldMap != "" {
		c.FieldMap = overlay.FieldMap
	}
	if overlay.GateRules != "" {
		c.GateRules = overlay.GateRules
	}
	for kind, poll := range overlay.Poll {
		if c.Poll == nil {
			c.Poll = make(map[string]PollConfig)
		}
		c.Poll[kind] = poll
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.BaseDelay == "" {
		c.BaseDelay = "500ms"
	}
	if c.ExtractWorkers == 0 {
		c.ExtractWorkers = 4
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	envOverride(EnvPipelineBaseDelay, &c.BaseDelay)
	envOverride(EnvPipelineFieldMap, &c.FieldMap)
	envOverride(EnvPipelineGateRules, &c.GateRules)
	if v := os.Getenv(EnvPipelineExtractWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ExtractWorkers = n
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid max_retries: %d", c.MaxRetries)
	}
	if _, err := time.ParseDuration(c.BaseDelay); err != nil {
		return fmt.Errorf("invalid base_delay: %w", err)
	}
	if c.ExtractWorkers < 1 {
		return fmt.Errorf("invalid extract_workers: %d", c.ExtractWorkers)
	}
	for kind, poll := range c.Poll {
		if _, err := time.ParseDuration(poll.Interval); err != nil {
			return fmt.Errorf("invalid poll interval for %s: %w", kind, err)
		}
		if poll.MaxChecks < 1 {
			return fmt.Errorf("invalid poll max_checks for %s: %d", kind, poll.MaxChecks)
		}
	}
	return nil
}
