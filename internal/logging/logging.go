// Package logging provides structured logging with zap.
//
// The terminal belongs to the UI, so logs go to a file or nowhere. Until Init
// is called every helper writes to a no-op logger.
package logging

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OutputNone disables logging entirely.
const OutputNone = "none"

var (
	mu           sync.RWMutex
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Output string // "none" or a file path
}

// Init initializes the global logger.
func Init(cfg Config) error {
	if cfg.Output == "" || cfg.Output == OutputNone {
		setLogger(zap.NewNop())
		return nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.WarnLevel
	}
	globalLevel.SetLevel(level)

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o700); err != nil {
		return err
	}

	config := zap.NewProductionConfig()
	config.Level = globalLevel
	config.OutputPaths = []string{cfg.Output}
	config.ErrorOutputPaths = []string{cfg.Output}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	setLogger(logger)
	return nil
}

// DefaultOutput returns the default log file location.
func DefaultOutput() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "rfm", "rfm.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return OutputNone
	}
	return filepath.Join(home, ".local", "state", "rfm", "rfm.log")
}

func setLogger(l *zap.Logger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// L returns the global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}

// SetLevel changes the global log level at runtime.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Field helpers for common fields.
func String(key, val string) zap.Field { return zap.String(key, val) }

func Strings(key string, val []string) zap.Field { return zap.Strings(key, val) }

func Int(key string, val int) zap.Field { return zap.Int(key, val) }

func Int64(key string, val int64) zap.Field { return zap.Int64(key, val) }

func Err(err error) zap.Field { return zap.Error(err) }

func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }
