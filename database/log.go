package database

import (
	"context"
	"fmt"
	stdslog "log/slog"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"goyave.dev/formrules/slog"
	"goyave.dev/formrules/util/errors"
)

var regexGormPath = regexp.MustCompile(`gorm.io/(.*?)@`)

// Logger adapter between `*slog.Logger` and GORM's logger.
type Logger struct {
	slogger *slog.Logger

	// SlowThreshold queries taking longer than this are logged at warn level.
	// Zero disables the check.
	SlowThreshold time.Duration
}

// NewLogger create a new `Logger` adapter with a `SlowThreshold` of 200ms.
// A nil logger discards everything.
func NewLogger(slogger *slog.Logger) *Logger {
	return &Logger{
		slogger:       slogger,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// LogMode returns a copy of this logger. The level is handled by the underlying `*slog.Logger`.
func (l *Logger) LogMode(_ logger.LogLevel) logger.Interface {
	cpy := *l
	return &cpy
}

// Info logs at `LevelInfo`.
func (l Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.slogger == nil {
		return
	}
	l.slogger.InfoWithSource(ctx, sourceCaller(), fmt.Sprintf(msg, data...))
}

// Warn logs at `LevelWarn`.
func (l Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.slogger == nil {
		return
	}
	l.slogger.WarnWithSource(ctx, sourceCaller(), fmt.Sprintf(msg, data...))
}

// Error logs at `LevelError`.
func (l Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.slogger == nil {
		return
	}
	l.slogger.ErrorWithSource(ctx, sourceCaller(), fmt.Errorf(msg, data...))
}

// Trace logs the executed SQL at debug level, at warn level if the query
// is slow, or at error level if it failed. "record not found" is not an error.
func (l Logger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.slogger == nil {
		return
	}

	elapsed := time.Since(begin)
	attrs := func() []any {
		sql, rows := fc()
		return []any{
			"elapsed_ms", float64(elapsed.Nanoseconds()) / 1e6,
			"rows", lo.Ternary(rows == -1, "-", strconv.FormatInt(rows, 10)),
			"sql", sql,
		}
	}

	switch {
	case err != nil && l.slogger.Enabled(ctx, stdslog.LevelError) && !errors.Is(err, gorm.ErrRecordNotFound):
		l.slogger.ErrorWithSource(ctx, sourceCaller(), err, attrs()...)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.slogger.Enabled(ctx, stdslog.LevelWarn):
		l.slogger.WarnWithSource(ctx, sourceCaller(), fmt.Sprintf("SLOW SQL >= %v", l.SlowThreshold), attrs()...)
	case l.slogger.Enabled(ctx, stdslog.LevelDebug):
		l.slogger.DebugWithSource(ctx, sourceCaller(), "SQL", attrs()...)
	}
}

// sourceCaller returns the first caller outside of GORM.
func sourceCaller() uintptr {
	for i := 2; i < 15; i++ {
		pc, file, _, ok := runtime.Caller(i)
		if ok && (!regexGormPath.MatchString(file) || strings.HasSuffix(file, "_test.go")) {
			return pc
		}
	}
	return 0
}
