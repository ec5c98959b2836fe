// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Configuration structs declare their variables with `env` struct tags
// (github.com/caarlos0/env). Each struct type is parsed once per process
// and cached, so independent components can load their own configuration
// without coordinating.
package config
