package schemaidx

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	RecordInsert(duration time.Duration, err error)

	// RecordFlush is called after each memtable flush with the number of
	// entries written.
	RecordFlush(entries int, duration time.Duration, err error)

	// RecordRange is called after each range or lookup query with the number
	// of matching entity ids.
	RecordRange(results uint64, duration time.Duration, err error)

	// RecordOpen is called after an index is opened.
	RecordOpen(segments int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)        {}
func (NoopMetricsCollector) RecordFlush(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordRange(uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordOpen(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	FlushCount       atomic.Int64
	FlushErrors      atomic.Int64
	FlushedEntries   atomic.Int64
	RangeCount       atomic.Int64
	RangeErrors      atomic.Int64
	RangeResults     atomic.Int64
	RangeTotalNanos  atomic.Int64
	OpenCount        atomic.Int64
	OpenErrors       atomic.Int64
	OpenedSegments   atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(entries int, _ time.Duration, err error) {
	b.FlushCount.Add(1)
	if err != nil {
		b.FlushErrors.Add(1)
		return
	}
	b.FlushedEntries.Add(int64(entries))
}

// RecordRange implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRange(results uint64, duration time.Duration, err error) {
	b.RangeCount.Add(1)
	b.RangeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RangeErrors.Add(1)
		return
	}
	b.RangeResults.Add(int64(results))
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(segments int, _ time.Duration, err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
		return
	}
	b.OpenedSegments.Add(int64(segments))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertErrors:   b.InsertErrors.Load(),
		InsertAvgNanos: avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		FlushCount:     b.FlushCount.Load(),
		FlushErrors:    b.FlushErrors.Load(),
		FlushedEntries: b.FlushedEntries.Load(),
		RangeCount:     b.RangeCount.Load(),
		RangeErrors:    b.RangeErrors.Load(),
		RangeResults:   b.RangeResults.Load(),
		RangeAvgNanos:  avg(b.RangeTotalNanos.Load(), b.RangeCount.Load()),
		OpenCount:      b.OpenCount.Load(),
		OpenErrors:     b.OpenErrors.Load(),
		OpenedSegments: b.OpenedSegments.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertErrors   int64
	InsertAvgNanos int64
	FlushCount     int64
	FlushErrors    int64
	FlushedEntries int64
	RangeCount     int64
	RangeErrors    int64
	RangeResults   int64
	RangeAvgNanos  int64
	OpenCount      int64
	OpenErrors     int64
	OpenedSegments int64
}
