package dict

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    expandCounter  prometheus.Counter
//	    rehashDuration prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordExpand(newSize uint64) {
//	    p.expandCounter.Inc()
//	}
type MetricsCollector interface {
	// RecordExpand is called after a new rehash target table is installed.
	// newSize is the size of the target table.
	RecordExpand(newSize uint64)

	// RecordShrink is called when an installed target table is smaller
	// than the current one.
	RecordShrink(newSize uint64)

	// RecordRehashStep is called after each rehash call that made
	// progress. buckets is the number of non-empty buckets migrated,
	// duration the time spent migrating them.
	RecordRehashStep(buckets int, duration time.Duration)

	// RecordRehashDone is called when an incremental rehash completes
	// and the target table is promoted.
	RecordRehashDone()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExpand(uint64)                 {}
func (NoopMetricsCollector) RecordShrink(uint64)                 {}
func (NoopMetricsCollector) RecordRehashStep(int, time.Duration) {}
func (NoopMetricsCollector) RecordRehashDone()                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExpandCount      atomic.Int64
	ShrinkCount      atomic.Int64
	RehashSteps      atomic.Int64
	RehashBuckets    atomic.Int64
	RehashTotalNanos atomic.Int64
	RehashDoneCount  atomic.Int64
}

// RecordExpand implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpand(newSize uint64) {
	b.ExpandCount.Add(1)
}

// RecordShrink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShrink(newSize uint64) {
	b.ShrinkCount.Add(1)
}

// RecordRehashStep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRehashStep(buckets int, duration time.Duration) {
	b.RehashSteps.Add(1)
	b.RehashBuckets.Add(int64(buckets))
	b.RehashTotalNanos.Add(duration.Nanoseconds())
}

// RecordRehashDone implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRehashDone() {
	b.RehashDoneCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExpandCount:     b.ExpandCount.Load(),
		ShrinkCount:     b.ShrinkCount.Load(),
		RehashSteps:     b.RehashSteps.Load(),
		RehashBuckets:   b.RehashBuckets.Load(),
		RehashAvgNanos:  b.getAvgRehashNanos(),
		RehashDoneCount: b.RehashDoneCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRehashNanos() int64 {
	steps := b.RehashSteps.Load()
	if steps == 0 {
		return 0
	}
	return b.RehashTotalNanos.Load() / steps
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExpandCount     int64
	ShrinkCount     int64
	RehashSteps     int64
	RehashBuckets   int64
	RehashAvgNanos  int64
	RehashDoneCount int64
}
