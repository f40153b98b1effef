package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "debug", Format: "json"}, &buf)

	log.Debug("queue poll", "messages", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "queue poll", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, float64(3), entry["messages"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "info", Format: "text"}, &buf)

	log.Info("job launched", "key", "movie.mp4")

	assert.Contains(t, buf.String(), "msg=\"job launched\"")
	assert.Contains(t, buf.String(), "key=movie.mp4")
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "warn", Format: "text"}, &buf)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLoggerBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "loudest", Format: "text"}, &buf)

	log.Debug("dropped")
	assert.Empty(t, buf.String())

	log.Info("kept")
	assert.Contains(t, buf.String(), "kept")
}
