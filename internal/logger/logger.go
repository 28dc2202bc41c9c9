// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output goes through a zap core so the
// HTTP layer can attach structured fields. The logger is safe for
// concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet", "none":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	atom  zap.AtomicLevel
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	atom := zap.NewAtomicLevelAt(toZap(level))
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(out),
		atom,
	)
	z := zap.New(core, zap.AddCallerSkip(1))

	return &Logger{
		atom:  atom,
		zap:   z,
		sugar: z.Sugar(),
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeLevel:      levelEncoder,
		EncodeTime:       timeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
	}
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString("[DBG]")
	case zapcore.InfoLevel:
		enc.AppendString("[INF]")
	case zapcore.WarnLevel:
		enc.AppendString("[WRN]")
	default:
		enc.AppendString("[ERR]")
	}
}

// toZap maps our three levels onto zap's. Off sits above Fatal so nothing
// is enabled.
func toZap(level Level) zapcore.Level {
	switch level {
	case LevelOff:
		return zapcore.FatalLevel + 1
	case LevelVerbose:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.atom.SetLevel(toZap(level))
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	switch lv := l.atom.Level(); {
	case lv > zapcore.FatalLevel:
		return LevelOff
	case lv <= zapcore.DebugLevel:
		return LevelVerbose
	default:
		return LevelNormal
	}
}

// Zap returns the underlying structured logger.
func (l *Logger) Zap() *zap.Logger { return l.zap }

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered output.
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}
