// Package logging provides a small structured-logging facade over zap so
// the rest of the crawler depends on an interface, not a concrete library.
package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured logging field.
type Field = zap.Field

// Typed field constructors, thin wrappers kept so call sites never import zap directly.
func String(key, val string) Field              { return zap.String(key, val) }
func Int(key string, val int) Field             { return zap.Int(key, val) }
func Int64(key string, v int64) Field           { return zap.Int64(key, v) }
func Float64(key string, v float64) Field       { return zap.Float64(key, v) }
func Duration(key string, v time.Duration) Field { return zap.Duration(key, v) }
func Bool(key string, v bool) Field             { return zap.Bool(key, v) }
func Err(err error) Field                       { return zap.Error(err) }
func Any(key string, val any) Field             { return zap.Any(key, val) }

// Logger is the logging contract used across every package. Keeping it as
// an interface lets tests substitute a no-op implementation.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

type zapLogger struct {
	l *zap.Logger
}

// New builds a production-style JSON logger at the given level ("debug",
// "info", "warn", "error"; defaults to "info" on an unrecognized value).
func New(level string) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

// Must builds a logger and exits the process on failure; used only from main.
func Must(level string) Logger {
	l, err := New(level)
	if err != nil {
		os.Stderr.WriteString("logging: failed to initialize: " + err.Error() + "\n")
		os.Exit(1)
	}
	return l
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, fields...) }
func (z *zapLogger) Fatal(msg string, fields ...Field) { z.l.Fatal(msg, fields...) }
func (z *zapLogger) With(fields ...Field) Logger       { return &zapLogger{l: z.l.With(fields...)} }
func (z *zapLogger) Sync() error                       { return z.l.Sync() }

// Nop returns a logger that discards everything, for tests and library use.
func Nop() Logger { return &zapLogger{l: zap.NewNop()} }
