package log

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwantia/tagster/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"TRACE":   Debug,
		"info":    Info,
		"warning": Warn,
		" WARN ":  Warn,
		"error":   Error,
		"fatal":   Fatal,
		"unknown": Info,
	}

	for input, want := range tests {
		assert.Equal(t, want, Parse(input), input)
	}
	assert.Equal(t, "WARN", Warn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func testConfig() config.LogConfig {
	cfg := config.GetDefault().Log
	cfg.Level = "INFO"
	cfg.NoColor = true
	return cfg
}

func TestLoggerFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("tagster", testConfig(), &buf)

	logger.Debug("hidden")
	logger.Info("imported %d files", 3)
	logger.Warn("100% literal")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "[tagster] imported 3 files")
	assert.Contains(t, lines[1], "100% literal")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("", testConfig(), &buf)

	logger.Named("workspace").Info("first")
	logger.Named("workspace").Named("import").Info("second")

	out := buf.String()
	assert.Contains(t, out, "[workspace] first")
	assert.Contains(t, out, "[workspace/import] second")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.JSON = true

	NewLoggerServiceWithWriter("tagster", cfg, &buf).Error("failed %s", "rename")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "tagster", entry.Service)
	assert.Equal(t, "failed rename", entry.Message)
}

func TestLoggerTagProcessorCanProcess(t *testing.T) {
	p := NewLoggerTagProcessor()

	assert.True(t, p.CanProcess("logger"))
	assert.True(t, p.CanProcess("Logger:workspace"))
	assert.False(t, p.CanProcess("inject"))
	assert.False(t, p.CanProcess("loggers"))
}

func TestLoggerFileOutputIsPlain(t *testing.T) {
	var terminal bytes.Buffer
	cfg := testConfig()
	cfg.NoColor = false
	cfg.File = filepath.Join(t.TempDir(), "tagster.log")

	logger := NewLoggerServiceWithWriter("tagster", cfg, &terminal)
	logger.Named("workspace").Warn("renamed %s", "a.txt")
	require.NoError(t, logger.(io.Closer).Close())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[tagster/workspace] renamed a.txt")
	assert.NotContains(t, string(data), "\033[")

	assert.Contains(t, terminal.String(), Color(Warn))
}

func TestLoggerNoTerminal(t *testing.T) {
	var terminal bytes.Buffer
	cfg := testConfig()
	cfg.NoTerminal = true
	cfg.File = filepath.Join(t.TempDir(), "tagster.log")

	logger := NewLoggerServiceWithWriter("", cfg, &terminal)
	logger.Info("hello")
	require.NoError(t, logger.(io.Closer).Close())

	assert.Empty(t, terminal.String())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestLoggerFatalExits(t *testing.T) {
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		exit = os.Exit
	})

	var buf bytes.Buffer
	NewLoggerServiceWithWriter("", testConfig(), &buf).Fatal("giving up")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL giving up")
}
