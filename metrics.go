package vecshard

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// observability package ships a Prometheus implementation.
type MetricsCollector interface {
	// RecordInitShard is called after each InitShard.
	RecordInitShard(duration time.Duration, err error)

	// RecordFit is called after each Fit. count is the number of vectors
	// ingested (0 on failure).
	RecordFit(count int, duration time.Duration, err error)

	// RecordQuery is called after each Query or Search.
	// k is the number of neighbours requested, results the number returned.
	RecordQuery(k, results int, duration time.Duration, err error)

	// RecordMemory is called whenever the bytes held by vector stores change.
	RecordMemory(bytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInitShard(time.Duration, error)       {}
func (NoopMetricsCollector) RecordFit(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMemory(int64)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InitShardCount  atomic.Int64
	InitShardErrors atomic.Int64
	FitCount        atomic.Int64
	FitErrors       atomic.Int64
	FitVectors      atomic.Int64
	FitTotalNanos   atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryResults    atomic.Int64
	QueryTotalNanos atomic.Int64
	MemoryBytes     atomic.Int64
}

// RecordInitShard implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInitShard(_ time.Duration, err error) {
	b.InitShardCount.Add(1)
	if err != nil {
		b.InitShardErrors.Add(1)
	}
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(count int, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
		return
	}
	b.FitVectors.Add(int64(count))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_, results int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryResults.Add(int64(results))
}

// RecordMemory implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMemory(bytes int64) {
	b.MemoryBytes.Store(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InitShardCount:  b.InitShardCount.Load(),
		InitShardErrors: b.InitShardErrors.Load(),
		FitCount:        b.FitCount.Load(),
		FitErrors:       b.FitErrors.Load(),
		FitVectors:      b.FitVectors.Load(),
		FitAvgNanos:     avg(b.FitTotalNanos.Load(), b.FitCount.Load()),
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryResults:    b.QueryResults.Load(),
		QueryAvgNanos:   avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		MemoryBytes:     b.MemoryBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	InitShardCount  int64
	InitShardErrors int64
	FitCount        int64
	FitErrors       int64
	FitVectors      int64
	FitAvgNanos     int64
	QueryCount      int64
	QueryErrors     int64
	QueryResults    int64
	QueryAvgNanos   int64
	MemoryBytes     int64
}
