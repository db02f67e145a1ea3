package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	coreport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// DatabaseLogger is a GORM logger that writes through the core logger. Below
// debug level statements are logged with placeholders only, so user emails and
// amounts stay out of the logs.
type DatabaseLogger struct {
	coreLogger    coreport.Logger
	logLevel      logger.LogLevel
	slowThreshold time.Duration
	timeProvider  coreport.TimeProvider
	withParams    bool
}

// NewDatabaseLogger creates a new database logger
func NewDatabaseLogger(coreLogger coreport.Logger, timeProvider coreport.TimeProvider, level string, slowThreshold time.Duration) logger.Interface {
	var logLevel logger.LogLevel
	level = strings.ToLower(level)
	switch level {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	default:
		logLevel = logger.Info
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	return &DatabaseLogger{
		coreLogger:    coreLogger,
		logLevel:      logLevel,
		slowThreshold: slowThreshold,
		timeProvider:  timeProvider,
		withParams:    level == "debug",
	}
}

// ParamsFilter drops bound values from logged SQL unless debugging
func (l *DatabaseLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.withParams {
		return sql, params
	}
	return sql, nil
}

// LogMode sets the log level for the logger
func (l *DatabaseLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info logs info messages
func (l *DatabaseLogger) Info(_ context.Context, msg string, data ...any) {
	if l.logLevel >= logger.Info {
		l.coreLogger.Info(fmt.Sprintf(msg, data...), map[string]any{"source": "database"})
	}
}

// Warn logs warn messages
func (l *DatabaseLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.logLevel >= logger.Warn {
		l.coreLogger.Warn(fmt.Sprintf(msg, data...), map[string]any{"source": "database"})
	}
}

// Error logs error messages
func (l *DatabaseLogger) Error(_ context.Context, msg string, data ...any) {
	if l.logLevel >= logger.Error {
		l.coreLogger.Error(fmt.Sprintf(msg, data...), map[string]any{"source": "database"})
	}
}

// Trace logs SQL statements: errors at error level, slow queries at warn, the rest at debug
func (l *DatabaseLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := l.timeProvider.Since(begin).Std()
	sql, rows := fc()

	fields := map[string]any{
		"elapsed": elapsed.String(),
		"rows":    rows,
		"sql":     sql,
		"source":  "database",
	}
	if queryType := extractQueryType(sql); queryType != "" {
		fields["type"] = queryType
	}
	if tableName := extractTableName(sql); tableName != "" {
		fields["table"] = tableName
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logLevel >= logger.Error:
		fields["error"] = err.Error()
		l.coreLogger.Error("SQL Error", fields)
	case elapsed > l.slowThreshold && l.logLevel >= logger.Warn:
		l.coreLogger.Warn("Slow SQL Query", fields)
	case l.logLevel >= logger.Info:
		l.coreLogger.Debug("SQL Query", fields)
	}
}

// extractQueryType determines the type of SQL query (SELECT, INSERT, UPDATE, DELETE)
func extractQueryType(sql string) string {
	sqlUpper := strings.ToUpper(strings.TrimSpace(sql))
	for _, t := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sqlUpper, t) {
			return t
		}
	}
	return ""
}

// extractTableName returns the first table named after FROM, INTO or UPDATE
func extractTableName(sql string) string {
	sqlUpper := strings.ToUpper(strings.TrimSpace(sql))

	var start int
	switch {
	case strings.Contains(sqlUpper, " FROM "):
		start = strings.Index(sqlUpper, " FROM ") + 6
	case strings.Contains(sqlUpper, " INTO "):
		start = strings.Index(sqlUpper, " INTO ") + 6
	case strings.HasPrefix(sqlUpper, "UPDATE "):
		start = 7
	default:
		return ""
	}

	remainder := strings.Trim(sqlUpper[start:], " ")
	if i := strings.IndexAny(remainder, " ("); i != -1 {
		remainder = remainder[:i]
	}
	return strings.ToLower(strings.Trim(remainder, `"`))
}
