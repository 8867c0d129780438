package catalog

import (
	"time"

	"github.com/kbukum/searchlab/validation"
)

// Default simulation parameters.
const (
	DefaultLatencyMin  = 200 * time.Millisecond
	DefaultLatencyMax  = 1700 * time.Millisecond
	DefaultFailureRate = 0.3
)

// Config tunes the simulated backend.
type Config struct {
	LatencyMin time.Duration `mapstructure:"latency_min" validate:"gte=0"`
	LatencyMax time.Duration `mapstructure:"latency_max" validate:"gtefield=LatencyMin"`
	// FailureRate is the probability that a call fails.
	FailureRate float64 `mapstructure:"failure_rate" validate:"gte=0,lte=1"`
	// Seed fixes the random source; zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// DefaultConfig returns the demo settings.
func DefaultConfig() Config {
	return Config{
		LatencyMin:  DefaultLatencyMin,
		LatencyMax:  DefaultLatencyMax,
		FailureRate: DefaultFailureRate,
	}
}

// ApplyDefaults fills an unset latency window. FailureRate keeps its value
// since zero is a meaningful rate.
func (c *Config) ApplyDefaults() {
	if c.LatencyMin == 0 && c.LatencyMax == 0 {
		c.LatencyMin = DefaultLatencyMin
		c.LatencyMax = DefaultLatencyMax
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
