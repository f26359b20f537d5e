// Package logger wraps go.uber.org/zap behind the small structured
// interface the rest of this module's constructors expect:
// Debug/Info/Warn/Error(msg string, keysAndValues ...any). Unlike a
// package-level global, a *Logger is constructed once by the caller
// (typically in cmd/) and threaded through every component by
// dependency injection, per spec.md section 9's "process-wide
// configuration" note.
package logger

import (
	"go.uber.org/zap"
)

// Logger is a structured, leveled logger with key/value fields.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger at the given level ("debug", "info", "warn",
// "error"; anything else falls back to "info"). Output goes to stderr
// in the teacher's production configuration style.
func New(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = parseLevel(level)

	zl, err := cfg.Build()
	if err != nil {
		// Building the production config should never fail; fall back
		// to a no-op logger rather than panicking a caller that merely
		// wanted to start a service.
		zl = zap.NewNop()
	}

	return &Logger{sugar: zl.Sugar()}
}

// Nop returns a Logger that discards everything, useful as a default
// when a caller does not care about log output.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }

// Sync flushes any buffered log entries, matching zap's shutdown
// convention.
func (l *Logger) Sync() error { return l.sugar.Sync() }

func parseLevel(level string) zap.AtomicLevel {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return lvl
}
