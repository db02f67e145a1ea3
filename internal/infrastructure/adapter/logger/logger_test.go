package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

func TestZapLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := NewZapLogger(Config{Level: "warn", Format: "json", Output: path, Production: true})
	require.NoError(t, err)

	log.Info("dropped", nil)
	log.Warn("Ledger audit mismatch", map[string]any{"userId": "user-0042", "error": errors.New("drift")})
	require.NoError(t, log.Flush())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	entry := gjson.Parse(lines[0])
	assert.Equal(t, "Ledger audit mismatch", entry.Get("message").String())
	assert.Equal(t, "user-0042", entry.Get("userId").String())
	assert.Equal(t, "drift", entry.Get("error").String())
	assert.True(t, entry.Get("timestamp").Exists())
}

func TestZapLoggerSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := NewZapLogger(Config{Level: "error", Format: "json", Output: path})
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelError, log.GetLevel())

	log.Debug("hidden", nil)
	log.SetLevel(core.LogLevelDebug)
	log.Debug("visible", nil)
	require.NoError(t, log.Flush())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden")
	assert.Contains(t, string(raw), "visible")
}

func TestNoopLogger(t *testing.T) {
	log := NewNoopLogger()
	log.SetLevel(core.LogLevelWarn)
	log.Error("ignored", map[string]any{"k": 1})
	assert.Equal(t, core.LogLevelWarn, log.GetLevel())
	assert.NoError(t, log.Flush())
}
