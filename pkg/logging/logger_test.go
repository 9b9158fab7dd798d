package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestStructuredLogger_WritesJSONEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("sevenguis", "test", DebugLevel)
	logger.SetOutput(&buf)

	ctx := WithWidgetID(WithRequestID(context.Background(), "req-1"), "w-1")
	logger.Info(ctx, "[EDIT] applied", Fields{"unit": "celsius"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "[EDIT] applied", entry["message"])
	assert.Equal(t, "sevenguis", entry["service"])
	assert.Equal(t, "test", entry["version"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "w-1", entry["widget_id"])
	assert.Contains(t, entry, "timestamp")

	fields, ok := entry["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "celsius", fields["unit"])
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("sevenguis", "test", WarnLevel)
	logger.SetOutput(&buf)

	logger.Debug(context.Background(), "hidden", nil)
	logger.Info(context.Background(), "hidden", nil)
	logger.Warn(context.Background(), "shown", nil)
	assert.Len(t, decodeLines(t, &buf), 1)

	buf.Reset()
	logger.SetLevel(DebugLevel)
	logger.Debug(context.Background(), "now shown", nil)
	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestStructuredLogger_ErrorCarriesCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("sevenguis", "test", InfoLevel)
	logger.SetOutput(&buf)

	logger.Error(context.Background(), "[FAIL] boom", Fields{}, errors.New("kaput"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.Equal(t, "kaput", entries[0]["error"])
	assert.Contains(t, entries[0]["file"], "logger_test.go")
}

func TestContextLogger_MergesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("sevenguis", "test", InfoLevel)
	logger.SetOutput(&buf)

	logger.WithFields(Fields{"widget": "converter", "unit": "celsius"}).
		Info(context.Background(), "merged", Fields{"unit": "fahrenheit"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	fields := entries[0]["fields"].(map[string]any)
	assert.Equal(t, "converter", fields["widget"])
	assert.Equal(t, "fahrenheit", fields["unit"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": DebugLevel,
		"INFO":  InfoLevel,
		"":      InfoLevel,
		"warn":  WarnLevel,
		"error": ErrorLevel,
	}
	for in, want := range tests {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseLevel("loud")
	assert.False(t, ok)
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Error(context.Background(), "discarded", nil, errors.New("x"))
	assert.Equal(t, "", RequestIDFrom(context.Background()))
}
