// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONFIG",
	"APP_LOG_FILE",
	"APP_LOG_LEVEL",
	"ADAPTER_ADDRESS",
	"ADAPTER_REQUEST_TIMEOUT",
	"STORAGE_DB_DSN",
	"WORKERS_WATCH_INTERVAL",
}

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_LOG_FILE":  "/tmp/client.log",
		"APP_LOG_LEVEL": "debug",

		"ADAPTER_ADDRESS":         "http://localhost:8080",
		"ADAPTER_REQUEST_TIMEOUT": "5s",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DSN": "file:sites.db",

		"WORKERS_WATCH_INTERVAL": "1m",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "/tmp/client.log", cfg.App.LogFile)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "http://localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "file:sites.db", cfg.Storage.DB.DSN)
	assert.Equal(t, time.Minute, cfg.Workers.WatchInterval)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	setEnvVars(t, nil)

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{"ADAPTER_REQUEST_TIMEOUT": "soon"})

	err := parseEnv(&StructuredConfig{})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	setEnvVars(t, map[string]string{"APP_LOG_LEVEL": "warn"})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_DB_DSN=file:from-dotenv.db\nAPP_LOG_LEVEL=debug\n"), 0o600))

	require.NoError(t, loadDotEnv(path))

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "file:from-dotenv.db", cfg.Storage.DB.DSN)
	// переменные окружения важнее .env
	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, loadDotEnv(""))
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEY=\"unterminated\n"), 0o600))

	assert.Error(t, loadDotEnv(path))
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
	}
}

// clearEnvVars unsets every config variable and restores the previous
// values when the test ends.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		prev, ok := os.LookupEnv(k)
		_ = os.Unsetenv(k)
		t.Cleanup(func() {
			if ok {
				_ = os.Setenv(k, prev)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}
