package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greenhood/config"
	deliverycontext "greenhood/internal/delivery/context"
	"greenhood/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storeLogger sends GORM output to the logger of the task issuing the statement,
// so SQL traces carry its task_id. Statements without a task log on the base logger.
type storeLogger struct {
	base      *slog.Logger
	level     logger.LogLevel
	slowQuery time.Duration
}

func newStoreLogger(base *slog.Logger, cfg *config.Config) logger.Interface {
	l := &storeLogger{base: base, level: logger.Warn}
	if cfg == nil {
		return l
	}
	if cfg.Env.Debug {
		l.level = logger.Info
	}
	if cfg.Store != nil {
		l.slowQuery = cfg.Store.SlowQuery
	}

	return l
}

func (l *storeLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *storeLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *storeLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *storeLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *storeLogger) message(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.level < threshold {
		return
	}
	if log := l.resolve(ctx); log != nil {
		log.LogAttrs(ctx, level, "Store message", slog.String("message", fmt.Sprintf(msg, args...)))
	}
}

// Trace logs failed statements, slow statements and, at info level, every statement.
// Missing rows are an expected outcome of lookups and are not failures.
func (l *storeLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	log := l.resolve(ctx)
	if log == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	statement := func(extra ...slog.Attr) []slog.Attr {
		sql, rows := sqlAndRowsFn()

		return append([]slog.Attr{
			slog.Duration("elapsed", elapsed),
			slog.Int64("rows", rows),
			slog.String("sql", sql),
		}, extra...)
	}

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		log.LogAttrs(ctx, slog.LevelError, "Store statement failed", statement(slog.String("error", err.Error()))...)
	case l.slowQuery > 0 && elapsed > l.slowQuery && l.level >= logger.Warn:
		log.LogAttrs(ctx, slog.LevelWarn, "Store statement slow", statement(slog.Duration("threshold", l.slowQuery))...)
	case l.level >= logger.Info:
		log.LogAttrs(ctx, slog.LevelInfo, "Store statement", statement()...)
	}
}

func (l *storeLogger) resolve(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.base)
}
