// Package logging provides the leveled, optionally colored console logger
// used by every command, with an optional JSON file sink.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/backmassage/dsprep/internal/config"
	"github.com/backmassage/dsprep/internal/term"
)

// SuccessLevel sits below debug so it never collides with zap's own levels;
// the cores below enable every level and gating happens in [Logger.Debug].
const SuccessLevel = zapcore.DebugLevel - 1

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu    sync.Mutex
	z     *zap.Logger
	file  *os.File
	runID string
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile for
// JSON output. Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	return newLogger(cfg, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
}

func newLogger(cfg *config.Config, stdout, stderr zapcore.WriteSyncer) (*Logger, error) {
	l := &Logger{runID: uuid.NewString()}

	enc := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	all := zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })
	cores := []zapcore.Core{
		zapcore.NewCore(enc, stdout, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool { return lvl < zapcore.ErrorLevel })),
		zapcore.NewCore(enc.Clone(), stderr, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool { return lvl >= zapcore.ErrorLevel })),
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, errors.Wrapf(err, "cannot create log directory for %q", cfg.LogFile)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open log file %q", cfg.LogFile)
		}
		l.file = f
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), zapcore.AddSync(f), all)
		cores = append(cores, fileCore.With([]zapcore.Field{zap.String("run", l.runID)}))
	}

	l.z = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeLevel:      consoleLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

func fileEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(LevelName(lvl))
	}
	return ec
}

// LevelName returns the tag printed for lvl ("INFO", "SUCCESS", ...).
func LevelName(lvl zapcore.Level) string {
	if lvl == SuccessLevel {
		return "SUCCESS"
	}
	return lvl.CapitalString()
}

// consoleLevelEncoder renders "[LEVEL]" in the level's color (plain when
// colors are off).
func consoleLevelEncoder(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	tag := "[" + LevelName(lvl) + "]"
	if !term.Enabled() {
		enc.AppendString(tag)
		return
	}
	style := term.Blue
	switch lvl {
	case SuccessLevel:
		style = term.Green
	case zapcore.WarnLevel:
		style = term.Yellow
	case zapcore.ErrorLevel:
		style = term.Red
	case zapcore.DebugLevel:
		style = term.Cyan
	}
	enc.AppendString(style.Render(tag))
}

// RunID identifies this invocation in the JSON log file.
func (l *Logger) RunID() string { return l.runID }

// Close flushes the logger and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.z.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(lvl zapcore.Level, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ce := l.z.Check(lvl, text); ce != nil {
		ce.Write()
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line(zapcore.InfoLevel, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line(SuccessLevel, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line(zapcore.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line(zapcore.ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line(zapcore.DebugLevel, fmt.Sprintf(format, args...))
}
