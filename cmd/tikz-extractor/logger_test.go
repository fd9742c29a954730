package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := &zapLogger{s: zap.New(core).Sugar()}

	l.Infof("Found %d point(s)", 3)
	l.Warnf("segments: skipping %q", `\draw (A) -- (Z)`)
	l.Errorf("failed: %v", "boom")

	entries := observed.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Found 3 point(s)", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "failed: boom", entries[2].Message)
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l, sync := newLogger("json", &buf)
	l.Warnf("skipping %s", "circle")
	sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "skipping circle", entry["msg"])
	assert.Contains(t, entry, "ts")
}

func TestNewLoggerText(t *testing.T) {
	defer func(noColor bool) { color.NoColor = noColor }(color.NoColor)
	color.NoColor = true

	var buf bytes.Buffer
	l, sync := newLogger("text", &buf)
	l.Infof("Detected %s input", "markup")
	l.Warnf("skipping")
	l.Errorf("broken")
	sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"Detected markup input", "⚠ skipping", "✗ broken"}, lines)
}
