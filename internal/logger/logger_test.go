package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oggyb/tutormatch/internal/config"
)

// capture points the global logger at a buffer while f runs.
func capture(t *testing.T, c *config.Config, f func()) string {
	t.Helper()

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(nil)
		Init(&Config{Level: "info", Format: FormatText})
	})

	InitFromConfig(c)
	f()
	return buf.String()
}

func logConfig(level, format, component string) *config.Config {
	c := &config.Config{}
	c.Log.Level = level
	c.Log.Format = format
	c.Log.Component = component
	return c
}

func TestLogger_TextFormat(t *testing.T) {
	out := capture(t, logConfig("debug", "text", "test"), func() {
		Info("swipe recorded", "actor", 7)
	})

	assert.Contains(t, out, "swipe recorded")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "actor=7")
}

func TestLogger_JSONFormat(t *testing.T) {
	out := capture(t, logConfig("info", "json", "json_test"), func() {
		Info("feed built", "size", 3)
	})

	assert.Contains(t, out, `"msg":"feed built"`)
	assert.Contains(t, out, `"component":"json_test"`)
	assert.Contains(t, out, `"size":3`)
}

func TestLogger_LevelFilter(t *testing.T) {
	out := capture(t, logConfig("error", "text", ""), func() {
		Info("should not appear")
		Error("should appear")
		assert.False(t, Enabled(slog.LevelWarn))
		assert.True(t, Enabled(slog.LevelError))
	})

	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestLogger_WithAddsFields(t *testing.T) {
	out := capture(t, logConfig("debug", "text", ""), func() {
		With("req_id", "123").Info("processing request")
	})

	assert.Contains(t, out, "req_id=123")
}

func TestLogger_NilConfigKeepsDefaults(t *testing.T) {
	out := capture(t, nil, func() {
		Debug("hidden")
		Info("visible")
	})

	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}
