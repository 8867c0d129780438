package pipeline

import (
	"time"

	"github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/strategy"
	"github.com/kbukum/searchlab/validation"
)

// Defaults.
const (
	DefaultDebounce      = 400 * time.Millisecond
	DefaultMinTermLength = 2
	DefaultPageSize      = 3
	DefaultMaxAttempts   = 3
	DefaultRetryDelay    = 500 * time.Millisecond
	DefaultErrorMessage  = "Something went wrong while searching. Please try again."
)

// Config tunes the pipeline. Zero values select the defaults.
type Config struct {
	// Debounce is the quiet period before a query is dispatched.
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
	// DebounceNavigation applies Debounce to page changes as well as term
	// edits. Nil means true.
	DebounceNavigation *bool `mapstructure:"debounce_navigation"`
	// MinTermLength is measured in runes after trimming.
	MinTermLength int `mapstructure:"min_term_length" validate:"gte=0"`
	PageSize      int `mapstructure:"page_size" validate:"gte=0"`
	// MaxAttempts counts the first call.
	MaxAttempts  int           `mapstructure:"max_attempts" validate:"gte=0"`
	RetryDelay   time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
	Strategy     string        `mapstructure:"strategy"`
	ErrorMessage string        `mapstructure:"error_message"`
}

// DefaultConfig returns a config with every default filled in.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.DebounceNavigation == nil {
		on := true
		c.DebounceNavigation = &on
	}
	if c.MinTermLength == 0 {
		c.MinTermLength = DefaultMinTermLength
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Strategy == "" {
		c.Strategy = string(strategy.Default)
	}
	if c.ErrorMessage == "" {
		c.ErrorMessage = DefaultErrorMessage
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if _, err := strategy.ParseKind(c.Strategy); err != nil {
		return err
	}
	return nil
}

// debouncesNavigation reports whether page-only changes wait for Debounce.
func (c *Config) debouncesNavigation() bool {
	return c.DebounceNavigation == nil || *c.DebounceNavigation
}

// Bool returns a pointer to b, for DebounceNavigation literals.
func Bool(b bool) *bool { return &b }

// errNilDependency reports a missing constructor argument.
func errNilDependency(name string) error {
	return errors.InvalidInput(name, name+" must not be nil")
}
