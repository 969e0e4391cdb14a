package schemaidx

import (
	"log/slog"

	"github.com/hupe1980/schemaidx/codec"
	"github.com/hupe1980/schemaidx/segment"
)

type options struct {
	codec                codec.Type
	pageSize             int
	metricsCollector     MetricsCollector
	logger               *Logger
	ioLimitBytesPerSec   int64
	maxBackgroundWorkers int64
	memtableLimitBytes   int64
}

// Option configures Create and Open.
type Option func(*options)

// WithCodec configures the block codec for new segments.
// Existing segments keep the codec recorded in their header.
func WithCodec(c codec.Type) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithPageSize configures the uncompressed page size of new segments.
func WithPageSize(size int) Option {
	return func(o *options) {
		o.pageSize = size
	}
}

// WithIOLimit caps segment reads and writes at bytesPerSec.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimitBytesPerSec = bytesPerSec
	}
}

// WithMaxBackgroundWorkers bounds concurrent segment opens and flushes.
func WithMaxBackgroundWorkers(n int) Option {
	return func(o *options) {
		o.maxBackgroundWorkers = int64(n)
	}
}

// WithMemtableLimit flushes the memtable automatically once its entries
// would exceed bytes. Zero disables automatic flushes.
func WithMemtableLimit(bytes int64) Option {
	return func(o *options) {
		o.memtableLimitBytes = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &schemaidx.BasicMetricsCollector{}
//	idx, _ := schemaidx.Create(ctx, store, "users_by_birth", temporal.UniqueLocalDateTime,
//	    schemaidx.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:                codec.Default,
		pageSize:             segment.DefaultPageSize,
		metricsCollector:     NoopMetricsCollector{},
		logger:               NoopLogger(),
		maxBackgroundWorkers: 4,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
