package segmerge

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package metrics/prometheus).
type MetricsCollector interface {
	// RecordMerge is called after each merge of the active objects.
	// merged is the number of objects folded into the origin.
	RecordMerge(merged int, duration time.Duration, err error)

	// RecordUnmerge is called after each unmerge of the selection.
	RecordUnmerge(split int, duration time.Duration, err error)

	// RecordDelete is called after the active objects were deleted.
	RecordDelete(count int, duration time.Duration)

	// RecordLoad is called after a mergelist, job or archive was loaded.
	// kind is "mergelist", "job" or "annotation".
	RecordLoad(kind string, objects int, duration time.Duration, err error)

	// RecordSave is called after a mergelist, job or archive was saved.
	RecordSave(kind string, objects int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMerge(int, time.Duration, error)        {}
func (NoopMetricsCollector) RecordUnmerge(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordDelete(int, time.Duration)              {}
func (NoopMetricsCollector) RecordLoad(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MergeCount      atomic.Int64
	MergedObjects   atomic.Int64
	MergeErrors     atomic.Int64
	MergeTotalNanos atomic.Int64
	UnmergeCount    atomic.Int64
	UnmergedObjects atomic.Int64
	UnmergeErrors   atomic.Int64
	DeleteCount     atomic.Int64
	DeletedObjects  atomic.Int64
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadedObjects   atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	SaveTotalNanos  atomic.Int64
}

// RecordMerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMerge(merged int, duration time.Duration, err error) {
	b.MergeCount.Add(1)
	b.MergeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MergeErrors.Add(1)
		return
	}
	b.MergedObjects.Add(int64(merged))
}

// RecordUnmerge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnmerge(split int, duration time.Duration, err error) {
	b.UnmergeCount.Add(1)
	if err != nil {
		b.UnmergeErrors.Add(1)
		return
	}
	b.UnmergedObjects.Add(int64(split))
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(count int, duration time.Duration) {
	b.DeleteCount.Add(1)
	b.DeletedObjects.Add(int64(count))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(kind string, objects int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedObjects.Add(int64(objects))
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(kind string, objects int, duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MergeCount:      b.MergeCount.Load(),
		MergedObjects:   b.MergedObjects.Load(),
		MergeErrors:     b.MergeErrors.Load(),
		MergeAvgNanos:   avg(b.MergeTotalNanos.Load(), b.MergeCount.Load()),
		UnmergeCount:    b.UnmergeCount.Load(),
		UnmergedObjects: b.UnmergedObjects.Load(),
		UnmergeErrors:   b.UnmergeErrors.Load(),
		DeleteCount:     b.DeleteCount.Load(),
		DeletedObjects:  b.DeletedObjects.Load(),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		LoadedObjects:   b.LoadedObjects.Load(),
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		SaveAvgNanos:    avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
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
	MergeCount      int64
	MergedObjects   int64
	MergeErrors     int64
	MergeAvgNanos   int64
	UnmergeCount    int64
	UnmergedObjects int64
	UnmergeErrors   int64
	DeleteCount     int64
	DeletedObjects  int64
	LoadCount       int64
	LoadErrors      int64
	LoadedObjects   int64
	SaveCount       int64
	SaveErrors      int64
	SaveAvgNanos    int64
}
