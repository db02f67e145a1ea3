package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// Config selects the encoder, level and sink of the zap logger
type Config struct {
	Level      string
	Format     string // json or console
	Output     string // stdout, stderr or a file path
	CallerInfo bool
	Production bool
}

// ZapLogger implements the Logger interface using Zap. The level lives in a
// zap.AtomicLevel so it can change while requests are logging.
type ZapLogger struct {
	logger *zap.Logger
	atom   zap.AtomicLevel
}

// NewZapLogger creates a new zap-based logger instance
func NewZapLogger(cfg Config) (core.Logger, error) {
	var zc zap.Config
	if cfg.Production {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		zc.Encoding = "json"
		zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	case "console":
		zc.Encoding = "console"
	}
	if cfg.Output != "" {
		zc.OutputPaths = []string{cfg.Output}
	}
	zc.DisableCaller = !cfg.CallerInfo
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.MessageKey = "message"

	zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)

	zapLogger, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	l := &ZapLogger{logger: zapLogger, atom: zc.Level}
	l.SetLevel(core.ParseLogLevel(cfg.Level))
	return l, nil
}

// NewDefaultLogger creates a standard logger for the application
func NewDefaultLogger() core.Logger {
	l, err := NewZapLogger(Config{Level: "info", CallerInfo: true})
	if err != nil {
		panic(err)
	}
	return l
}

// SetLevel sets the minimum log level
func (l *ZapLogger) SetLevel(level core.LogLevel) {
	zl, err := zapcore.ParseLevel(level.String())
	if err != nil {
		zl = zapcore.InfoLevel
	}
	l.atom.SetLevel(zl)
}

// GetLevel gets the current log level
func (l *ZapLogger) GetLevel() core.LogLevel {
	return core.ParseLogLevel(l.atom.Level().String())
}

// mapToZapFields converts a map of fields to zap fields
func mapToZapFields(fields map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// Debug logs debug messages
func (l *ZapLogger) Debug(message string, fields map[string]any) {
	l.logger.Debug(message, mapToZapFields(fields)...)
}

// Info logs informational messages
func (l *ZapLogger) Info(message string, fields map[string]any) {
	l.logger.Info(message, mapToZapFields(fields)...)
}

// Warn logs warning messages
func (l *ZapLogger) Warn(message string, fields map[string]any) {
	l.logger.Warn(message, mapToZapFields(fields)...)
}

// Error logs error messages
func (l *ZapLogger) Error(message string, fields map[string]any) {
	l.logger.Error(message, mapToZapFields(fields)...)
}

// Flush ensures all buffered logs are written
func (l *ZapLogger) Flush() error {
	return l.logger.Sync()
}
