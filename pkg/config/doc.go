// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each configuration type is parsed exactly once per process and cached;
// concurrent callers for the same type always observe the same value.
// Struct fields are declared with `env` tags as understood by
// github.com/caarlos0/env.
//
// # Usage
//
//	type PipelineConfig struct {
//		Provider string `env:"AUTH_PROVIDER" envDefault:"none"`
//	}
//
//	var cfg PipelineConfig
//	config.MustLoad(&cfg)
package config
