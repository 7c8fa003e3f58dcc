package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SafeLogger wraps a zap logger and tolerates nil receivers, so services
// built in tests without InitLogger never panic on logging calls.
type SafeLogger struct {
	logger *zap.Logger
}

var (
	// Logger is the global logger instance. It discards output until InitLogger runs.
	Logger = &SafeLogger{logger: zap.NewNop()}
)

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	zapLogger, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "app-cadastro"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger = New(zapLogger)
	zap.ReplaceGlobals(zapLogger)

	return nil
}

// New wraps an existing zap logger
func New(l *zap.Logger) *SafeLogger {
	return &SafeLogger{logger: l}
}

// Nop returns a logger that discards everything
func Nop() *SafeLogger {
	return &SafeLogger{logger: zap.NewNop()}
}

func (l *SafeLogger) zap() *zap.Logger {
	if l == nil || l.logger == nil {
		return nil
	}
	return l.logger
}

// Debug logs at debug level
func (l *SafeLogger) Debug(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Debug(msg, fields...)
	}
}

// Info logs at info level
func (l *SafeLogger) Info(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Info(msg, fields...)
	}
}

// Warn logs at warn level
func (l *SafeLogger) Warn(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Warn(msg, fields...)
	}
}

// Error logs at error level
func (l *SafeLogger) Error(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Error(msg, fields...)
	}
}

// Fatal logs and exits. With no underlying logger it still exits.
func (l *SafeLogger) Fatal(msg string, fields ...zap.Field) {
	if z := l.zap(); z != nil {
		z.Fatal(msg, fields...)
	}
	os.Exit(1)
}

// With returns a child logger carrying the given fields
func (l *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	if l == nil || l.logger == nil {
		return l
	}
	return &SafeLogger{logger: l.logger.With(fields...)}
}

// Named returns a child logger with the given name segment
func (l *SafeLogger) Named(name string) *SafeLogger {
	if l == nil || l.logger == nil {
		return l
	}
	return &SafeLogger{logger: l.logger.Named(name)}
}

// Unwrap returns the underlying zap logger, or a no-op logger
func (l *SafeLogger) Unwrap() *zap.Logger {
	if z := l.zap(); z != nil {
		return z
	}
	return zap.NewNop()
}

// Sync flushes buffered entries
func (l *SafeLogger) Sync() error {
	if z := l.zap(); z != nil {
		return z.Sync()
	}
	return nil
}
