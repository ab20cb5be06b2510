package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRawJSON(t *testing.T, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	return path
}

func TestParseJSON_Success(t *testing.T) {
	path := writeRawJSON(t, `{
		"app": {"log_file": "/var/log/pt.log", "log_level": "warn"},
		"adapter": {"http_address": "http://127.0.0.1:9000", "request_timeout": "2s"},
		"storage": {"db": {"dsn": "file:cache.db"}},
		"workers": {"watch_interval": "45s"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/log/pt.log", cfg.App.LogFile)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 2*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "file:cache.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 45*time.Second, cfg.Workers.WatchInterval)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := parseJSON(writeRawJSON(t, `{"adapter":`))
	assert.Error(t, err)
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	_, err := parseJSON(writeRawJSON(t, `{"adapter": {"request_timeout": "soon"}}`))
	assert.Error(t, err)
}

func TestParseJSON_EmptyObject(t *testing.T) {
	cfg, err := parseJSON(writeRawJSON(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, Duration(90*time.Second), d)

	// число трактуется как наносекунды
	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, Duration(time.Microsecond), d)

	out, err := Duration(time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1s"`, string(out))
}
