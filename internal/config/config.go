// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Default values applied before any other source.
const (
	DefaultAdapterAddress = "https://www.protectedtext.com/"
	DefaultRequestTimeout = 10 * time.Second
	DefaultWatchInterval  = 30 * time.Second
	DefaultLogLevel       = "info"
)

// StructuredConfig is the top-level configuration container. It aggregates
// all sub-configurations and is populated by merging values from defaults,
// environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings such as logging.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote store address and request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local snapshot cache settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds process-level configuration values.
type App struct {
	// LogFile is the path of the client log file. Empty means a "logs" file
	// next to the executable.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// LogLevel is a zerolog level name (e.g. "debug", "info").
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Site is the site name opened on start.
	// Env: APP_SITE
	Site string `env:"SITE"`
}

// Adapter holds configuration of the remote store client.
type Adapter struct {
	// HTTPAddress is the base URL of the remote store
	// (e.g. "https://www.protectedtext.com/").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of a single outbound request
	// (e.g. "10s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local storage backends.
type Storage struct {
	// DB holds the snapshot database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the SQLite snapshot cache.
type DB struct {
	// DSN is the SQLite data source name (e.g. "file:sites.db").
	// Empty disables the cache.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// WatchInterval is how often an open site is polled for changes saved
	// by other clients. Zero disables the watcher.
	// Env: WORKERS_WATCH_INTERVAL
	WatchInterval time.Duration `env:"WATCH_INTERVAL"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: DefaultLogLevel,
		},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Workers: Workers{
			WatchInterval: DefaultWatchInterval,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (last source wins for non-zero
// fields):
//  1. Defaults
//  2. .env file and environment variables
//  3. Command-line flags (args)
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
