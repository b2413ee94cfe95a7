package observability_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pagebuilder/internal/config"
	"pagebuilder/internal/observability"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "pagebuilder",
	}, zapcore.AddSync(&buf))

	logger.Named("fetch").Debug("request", zap.String("kind", "table"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "pagebuilder.fetch", entry["logger"])
	assert.Equal(t, "table", entry["kind"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(config.LoggerConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))

	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))
	logger.Debug("hidden")
	logger.Info("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pagebuilder.log")
	var console bytes.Buffer
	logger := observability.NewLogger(config.LoggerConfig{
		Level:   "info",
		Format:  "console",
		LogFile: path,
		MaxSize: 1,
	}, zapcore.AddSync(&console))

	logger.Info("saved page")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"saved page"`)
	assert.Contains(t, console.String(), "saved page")
}

func TestLogger_NopBeforeInstall(t *testing.T) {
	assert.NotNil(t, observability.Logger())
}
