package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogWriter sends gorm's log lines to zap
type gormLogWriter struct {
	logger *zap.Logger
}

// Printf implements gorm's logger.Writer
func (w gormLogWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))

	switch {
	case strings.Contains(msg, "SLOW SQL"):
		w.logger.Warn("Slow query", zap.String("message", msg))
	case strings.Contains(msg, "[info]"):
		w.logger.Info("Database", zap.String("message", msg))
	case strings.Contains(msg, "[warn]"):
		w.logger.Warn("Database warning", zap.String("message", msg))
	default:
		w.logger.Error("Database error", zap.String("message", msg))
	}
}

// newGormLogger logs warnings, errors and slow queries through log.
// Missing rows are expected on login and are not logged.
func newGormLogger(log *zap.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(
		gormLogWriter{logger: log.Named("gorm")},
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
