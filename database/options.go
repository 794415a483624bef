package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// DebugFunc observes every executed statement. sql is the fully inlined
// statement, err the failure if any. It must not affect execution.
type DebugFunc func(sql string, start time.Time, err error)

// ErrorTranslator turns a driver native error into a *sqlerr.DriverError,
// returning nil when it does not recognise err.
type ErrorTranslator func(err error) *sqlerr.DriverError

type options struct {
	debug     DebugFunc
	translate ErrorTranslator
	rebind    bool
	cacheSize int
}

type Option func(*options)

// WithDebug installs a debug hook.
func WithDebug(fn DebugFunc) Option {
	return func(o *options) { o.debug = fn }
}

// WithErrorTranslator installs the driver specific error translation.
func WithErrorTranslator(fn ErrorTranslator) Option {
	return func(o *options) { o.translate = fn }
}

// WithRebind rewrites ? placeholders into the dialect's native markers
// before preparing. Needed for drivers that only accept $n.
func WithRebind() Option {
	return func(o *options) { o.rebind = true }
}

// WithStatementCacheSize sets the prepared statement cache capacity.
func WithStatementCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) driverError(sql string, err error) error {
	if err == nil {
		return nil
	}
	if o.translate != nil {
		if de := o.translate(err); de != nil {
			return sqlerr.Driver(sql, de)
		}
	}
	return sqlerr.Driver(sql, err)
}

func (o options) observe(q *params.Query, d dialect.Dialect, start time.Time, err error) {
	if o.debug == nil {
		return
	}
	raw, rerr := d.Features().Syntax.RawSQL(q, d)
	if rerr != nil {
		raw = q.SQL
	}
	o.debug(raw, start, err)
}

// FormatDebugBlock renders the human readable debug block for one statement.
func FormatDebugBlock(sql string, start time.Time, err error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Timestamp: %s\n", start.Format("2006-01-02 15:04:05.000000"))
	fmt.Fprintf(&sb, "Query: %s\n", sql)
	fmt.Fprintf(&sb, "Time: %.2f ms\n", float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		fmt.Fprintf(&sb, "Error: %s\n", err)
	}
	return sb.String()
}

// SlogDebugHook logs every statement at debug level, failures at error level.
func SlogDebugHook(logger *slog.Logger) DebugFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(sql string, start time.Time, err error) {
		attrs := []any{
			slog.Time("timestamp", start),
			slog.String("query", sql),
			slog.String("time_ms", fmt.Sprintf("%.2f", float64(time.Since(start).Microseconds())/1000)),
		}
		if err != nil {
			logger.Error("query failed", append(attrs, slog.String("error", err.Error()))...)
			return
		}
		logger.Debug("query executed", attrs...)
	}
}
