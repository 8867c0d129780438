package config

import (
	"fmt"

	"github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/logger"
	"github.com/kbukum/searchlab/validation"
	"github.com/kbukum/searchlab/version"
)

// Environments a service may run in.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// ServiceConfig contains the fields every binary needs. Projects embed it
// in their own config structs.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Pipeline pipeline.Config `mapstructure:"pipeline"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. It is promoted through
// embedding so embedding structs satisfy bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values. Embedding structs call it first
// from their own ApplyDefaults.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	if c.Environment == EnvDevelopment {
		c.Debug = true
	}
	if c.Version == "" {
		c.Version = version.GetShortVersion()
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base fields.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// Validate checks v's validate tags and reports failures as an invalid
// config error naming the mapstructure paths.
func Validate(v any) error {
	err := validation.Validate(v)
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return errors.InvalidConfig(appErr.Message)
	}
	return errors.InvalidConfig(err.Error())
}
