package datastore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
	"github.com/JaySorawit/DustMeasuringDashboard/internal/observability/metrics"
)

// DefaultSlowQueryThreshold defines the duration after which a query is
// considered slow. One second accommodates migration batch queries while
// still surfacing queries that need attention.
const DefaultSlowQueryThreshold = 1 * time.Second

// GormLogger routes GORM's internal logging through the datastore's
// structured logger and records query metrics when available.
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
	metrics       *metrics.DatastoreMetrics
}

// NewGormLogger creates a new GORM logger instance.
func NewGormLogger(slowThreshold time.Duration, logLevel gormlogger.LogLevel, m *metrics.DatastoreMetrics) *GormLogger {
	return &GormLogger{
		SlowThreshold: slowThreshold,
		LogLevel:      logLevel,
		metrics:       m,
	}
}

// createGormLogger configures the GORM logger used by both stores.
func createGormLogger(m *metrics.DatastoreMetrics) gormlogger.Interface {
	return NewGormLogger(DefaultSlowQueryThreshold, gormlogger.Warn, m)
}

// LogMode implements gormlogger.Interface.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

// Info implements gormlogger.Interface.
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Info {
		getLogger().InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface.
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Warn {
		getLogger().WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface.
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= gormlogger.Error {
		getLogger().ErrorContext(ctx, "GORM error",
			"msg", fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	operation, table := parseSQLOperation(sql)

	if l.metrics != nil {
		l.metrics.RecordOperationDuration(operation, table, elapsed.Seconds())
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		enhancedErr := errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "sql_query").
			Context("duration_ms", elapsed.Milliseconds()).
			Build()

		getLogger().ErrorContext(ctx, "Database query failed",
			"error", enhancedErr,
			"sql", sql,
			"duration", elapsed,
			"rows_affected", rows)

		if l.metrics != nil {
			l.metrics.RecordOperation(operation, table, "error")
		}

	case elapsed > l.SlowThreshold && l.SlowThreshold != 0:
		getLogger().WarnContext(ctx, "Slow query detected",
			"sql", sql,
			"duration", elapsed,
			"rows_affected", rows,
			"threshold", l.SlowThreshold)

		if l.metrics != nil {
			l.metrics.RecordOperation(operation, table, "success")
		}

	case l.LogLevel >= gormlogger.Info:
		getLogger().DebugContext(ctx, "Query executed",
			"sql", sql,
			"duration", elapsed,
			"rows_affected", rows)

		if l.metrics != nil {
			l.metrics.RecordOperation(operation, table, "success")
		}
	}
}

// parseSQLOperation extracts the statement verb and target table from a
// SQL string for metric labels. Unknown shapes fall back to "unknown".
func parseSQLOperation(sql string) (operation, table string) {
	operation, table = "unknown", "unknown"

	fields := strings.Fields(strings.TrimSpace(sql))
	if len(fields) == 0 {
		return operation, table
	}

	operation = strings.ToLower(fields[0])
	var keyword string
	switch operation {
	case "select", "delete":
		keyword = "from"
	case "insert":
		keyword = "into"
	case "update":
		return operation, cleanTableName(fields, 1)
	default:
		return operation, table
	}

	for i, f := range fields {
		if strings.EqualFold(f, keyword) {
			return operation, cleanTableName(fields, i+1)
		}
	}
	return operation, table
}

func cleanTableName(fields []string, idx int) string {
	if idx >= len(fields) {
		return "unknown"
	}
	return strings.Trim(fields[idx], "`\"'(")
}
