package main

import (
	"fmt"

	"github.com/kbukum/searchlab/catalog"
	"github.com/kbukum/searchlab/config"
	"github.com/kbukum/searchlab/observability"
	"github.com/kbukum/searchlab/pipeline"
)

const serviceName = "searchlab"

// AppConfig is the full configuration of the demo binary.
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
	Pipeline             pipeline.Config               `mapstructure:"pipeline"`
	Catalog              catalog.Config                `mapstructure:"catalog"`
	Telemetry            observability.TelemetryConfig `mapstructure:"telemetry"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Catalog.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := config.Validate(&c.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// defaults registers every key with viper so each one can be overridden
// from the environment, e.g. SEARCHLAB_CATALOG_FAILURE_RATE=0.
func defaults() map[string]any {
	p := pipeline.DefaultConfig()
	c := catalog.DefaultConfig()
	return map[string]any{
		"name":                         serviceName,
		"environment":                  config.EnvDevelopment,
		"logging.level":                "info",
		"logging.format":               "json",
		"logging.output":               serviceName + ".log",
		"pipeline.debounce":            p.Debounce,
		"pipeline.debounce_navigation": true,
		"pipeline.min_term_length":     p.MinTermLength,
		"pipeline.page_size":           p.PageSize,
		"pipeline.max_attempts":        p.MaxAttempts,
		"pipeline.retry_delay":         p.RetryDelay,
		"pipeline.strategy":            p.Strategy,
		"pipeline.error_message":       p.ErrorMessage,
		"catalog.latency_min":          c.LatencyMin,
		"catalog.latency_max":          c.LatencyMax,
		"catalog.failure_rate":         c.FailureRate,
		"catalog.seed":                 c.Seed,
		"telemetry.endpoint":           "",
		"telemetry.insecure":           true,
		"telemetry.sample_rate":        1.0,
		"telemetry.metric_interval":    "15s",
	}
}
