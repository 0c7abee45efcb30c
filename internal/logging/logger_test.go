package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cafedesk.log")

	cfg := DefaultConfig()
	cfg.File = path
	logger, closeFn, err := New(cfg)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Uint("session_id", 7).Msg("session started")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "session started", entry["message"])
	assert.EqualValues(t, 7, entry["session_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_ConsoleTee(t *testing.T) {
	var stderr bytes.Buffer

	cfg := DefaultConfig()
	cfg.Console = true
	logger, closeFn, err := newLogger(cfg, &stderr)
	require.NoError(t, err)
	defer closeFn()

	logger.Warn().Str("system", "PC-01").Msg("rejected transition")
	assert.Contains(t, stderr.String(), "rejected transition")
	assert.Contains(t, stderr.String(), "PC-01")
}

func TestNew_NoOutputsIsNop(t *testing.T) {
	logger, closeFn, err := New(Config{Level: zerolog.InfoLevel})
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
