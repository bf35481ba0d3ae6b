// Package log is the process-wide structured logger used by blacky.
// Messages take alternating key/value pairs after the message, e.g.
//
//	log.Warn("could not determine origin remote", "error", err)
//
// Diagnostics are written to stderr; user-facing output (prompts, banners,
// dry-run commands) is printed by the callers themselves.
package log

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Prefix is printed in front of every log line.
const Prefix = "🦜"

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger = newLogger(zapcore.Lock(os.Stderr))
)

func newLogger(w zapcore.WriteSyncer) *zap.SugaredLogger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      encodeLevel,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), w, level)
	return zap.New(core).Sugar()
}

// encodeLevel renders levels as "🦜", "🦜:warn", "🦜:error".
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch {
	case l >= zapcore.ErrorLevel:
		enc.AppendString(Prefix + ":error")
	case l == zapcore.WarnLevel:
		enc.AppendString(Prefix + ":warn ")
	case l == zapcore.DebugLevel:
		enc.AppendString(Prefix + ":debug")
	default:
		enc.AppendString(Prefix)
	}
}

// ParseLevel converts a textual level (debug, info, warn, error) into a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
}

// Init sets the minimum level of the global logger.
func Init(levelName string) error {
	l, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// SetLogger replaces the global logger and returns a function restoring the
// previous one. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) (restore func()) {
	mu.Lock()
	prev := logger
	logger = l.Sugar()
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a message at debug level.
func Debug(msg string, keysAndValues ...interface{}) {
	current().Debugw(msg, keysAndValues...)
}

// Info logs a message at info level.
func Info(msg string, keysAndValues ...interface{}) {
	current().Infow(msg, keysAndValues...)
}

// Warn logs a message at warn level.
func Warn(msg string, keysAndValues ...interface{}) {
	current().Warnw(msg, keysAndValues...)
}

// Error logs a message at error level.
func Error(msg string, keysAndValues ...interface{}) {
	current().Errorw(msg, keysAndValues...)
}
