package observability

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

	"github.com/san-kum/pendulum/internal/config"
)

func newBufferLogger(t *testing.T, cfg config.LoggerConfig) *bytes.Buffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

func TestInitialize_ConsoleColors(t *testing.T) {
	buf := newBufferLogger(t, config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "pendulum",
		Colors:      config.ColorConfig{Info: "green"},
	})

	GetLogger().Info("frame rendered", zap.Int("frame", 3))

	out := buf.String()
	assert.Contains(t, out, colorGreen+"INFO"+colorReset)
	assert.Contains(t, out, "pendulum.")
	assert.Contains(t, out, "frame rendered")
	assert.Contains(t, out, `"frame": 3`)
}

func TestInitialize_JSON(t *testing.T) {
	buf := newBufferLogger(t, config.LoggerConfig{Level: "info", Format: "json"})

	GetLogger().Warn("non-finite state", zap.Int("step", 42))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "non-finite state", entry["msg"])
	assert.EqualValues(t, 42, entry["step"])
}

func TestInitialize_LevelFiltering(t *testing.T) {
	buf := newBufferLogger(t, config.LoggerConfig{Level: "warn", Format: "json"})

	GetLogger().Info("hidden")
	GetLogger().Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestInitialize_InvalidLevelFallsBackToInfo(t *testing.T) {
	buf := newBufferLogger(t, config.LoggerConfig{Level: "chatty", Format: "json"})

	GetLogger().Debug("debug line")
	GetLogger().Info("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestInitialize_OnlyOnce(t *testing.T) {
	buf := newBufferLogger(t, config.LoggerConfig{Level: "info", Format: "json"})
	first := GetLogger()

	var other bytes.Buffer
	Initialize(config.LoggerConfig{Level: "debug", Format: "console"}, zapcore.AddSync(&other))

	assert.Same(t, first, GetLogger())
	GetLogger().Info("still json")
	assert.Contains(t, buf.String(), `"msg":"still json"`)
	assert.Empty(t, other.String())
}

func TestInitialize_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pendulum.log")
	newBufferLogger(t, config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1})

	GetLogger().Info("written to file", zap.String("run", "abc"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry), "file output is always JSON")
	assert.Equal(t, "written to file", entry["msg"])
	assert.Equal(t, "abc", entry["run"])
}

func TestGetLogger_Fallback(t *testing.T) {
	ResetForTest()
	l := GetLogger()
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Debug("fallback works") })
}
