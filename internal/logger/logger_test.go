package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// TestNewLogger_RoleField verifies that every log entry produced by a logger
// created with NewLogger contains the expected "role" field.
func TestNewLogger_RoleField(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("test-role")
	// redirect output to buffer for inspection
	l.Logger = l.Output(&buf)

	l.Info().Msg("hello")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "test-role", entry["role"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

// TestNewLogger_CallerFieldName verifies that the caller field is named
// "func" and holds a function name.
func TestNewLogger_CallerFieldName(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("caller-role")
	l.Logger = l.Output(&buf)

	l.Info().Msg("caller")

	assert.Equal(t, "func", zerolog.CallerFieldName)
	entry := decodeEntry(t, &buf)
	fn, _ := entry["func"].(string)
	assert.True(t, strings.HasSuffix(fn, "TestNewLogger_CallerFieldName"), "got %q", fn)
}

func TestNewLogger_GlobalLevelIsDebug(t *testing.T) {
	NewLogger("level-role")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

// ── NewClientLogger ──────────────────────────────────────────────────────────

func TestNewClientLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	l := NewClientLogger("client", path, "debug")
	l.Debug().Str("site", "abc").Msg("opened")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"site":"abc"`)
	assert.Contains(t, string(data), `"role":"client"`)
}

func TestNewClientLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewClientLogger("client", filepath.Join(t.TempDir(), "client.log"), tt.level)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestNewClientLogger_FallsBackWhenFileUnavailable(t *testing.T) {
	l := NewClientLogger("client", filepath.Join(t.TempDir(), "missing-dir", "client.log"), "info")
	require.NotNil(t, l)
}

// ── Nop / children ───────────────────────────────────────────────────────────

// TestNop_DiscardsOutput verifies that a Nop logger produces no output.
func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String(), "Nop logger should produce no output")
}

// TestGetChildLogger_InheritsFields verifies that the child logger inherits
// context fields (e.g. "role") from the parent.
func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("inherited-role")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)

	child.Info().Msg("child message")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "inherited-role", entry["role"])
}

func TestForSite(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("client")
	parent.Logger = parent.Output(&buf)

	parent.ForSite("phptest").Info().Msg("fetched")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "phptest", entry["site"])
	assert.Equal(t, "client", entry["role"])
}

// ── FromContext ──────────────────────────────────────────────────────────────

// TestFromContext_NotNil verifies that FromContext never returns nil, even
// when no logger has been explicitly attached to the context.
func TestFromContext_NotNil(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
}

// TestFromContext_ReturnsAttachedLogger verifies that FromContext returns the
// logger that was previously attached to the context via WithContext.
func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zerolog.New(&buf).With().Str("ctx-key", "ctx-value").Logger()}
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "ctx-value", entry["ctx-key"])
}
