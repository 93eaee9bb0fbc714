package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/backmassage/dsprep/internal/config"
)

func newBufferLogger(t *testing.T, cfg *config.Config) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	l, err := newLogger(cfg, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, &stdout, &stderr
}

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestLogger_LevelsAndStreams(t *testing.T) {
	cfg := config.DefaultConfig()
	l, stdout, stderr := newBufferLogger(t, &cfg)

	l.Info("found %d files", 3)
	l.Success("done")
	l.Warn("careful")
	l.Error("broken: %s", "cat.1.jpg")
	l.Debug(false, "hidden")
	l.Debug(true, "shown")

	out := stdout.String()
	assert.Contains(t, out, "[INFO] found 3 files")
	assert.Contains(t, out, "[SUCCESS] done")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "[DEBUG] shown")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "broken")

	assert.Contains(t, stderr.String(), "[ERROR] broken: cat.1.jpg")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "logs", "dsprep.log")
	l, _, _ := newBufferLogger(t, &cfg)

	l.Info("to file")
	l.Success("split done")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "SUCCESS", entry["level"])
	assert.Equal(t, "split done", entry["msg"])
	assert.Equal(t, l.RunID(), entry["run"])
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "SUCCESS", LevelName(SuccessLevel))
	assert.Equal(t, "WARN", LevelName(zapcore.WarnLevel))
}
