// Package config loads service configuration.
//
// It uses Viper for YAML config files and environment variables and
// godotenv for .env files. Environment variables override file values
// using the service prefix and underscore-separated paths, e.g.
// SEARCHLAB_PIPELINE_STRATEGY for pipeline.strategy.
//
// # Usage
//
//	var cfg AppConfig
//	files, err := config.LoadConfig("searchlab", &cfg, config.WithDefaults(defaults))
package config
