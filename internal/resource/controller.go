package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrCacheBudgetExceeded is returned when a cache reservation does not fit.
var ErrCacheBudgetExceeded = errors.New("cache budget exceeded")

// Limits configures a Controller. Zero values mean unlimited, except
// Workers which defaults to 1.
type Limits struct {
	// CacheBytes caps the memory all caches may hold together.
	CacheBytes int64

	// Workers caps concurrent background jobs such as cube decoding.
	Workers int64

	// UploadBytesPerSec throttles blob uploads.
	UploadBytesPerSec int64
}

// Controller hands out cache memory, worker slots and upload bandwidth.
// A nil *Controller grants everything.
type Controller struct {
	limits Limits

	cacheSem  *semaphore.Weighted
	cacheUsed atomic.Int64

	workers *semaphore.Weighted

	upload *rate.Limiter
}

// NewController creates a controller for the given limits.
func NewController(limits Limits) *Controller {
	if limits.Workers <= 0 {
		limits.Workers = 1
	}

	c := &Controller{
		limits:  limits,
		workers: semaphore.NewWeighted(limits.Workers),
	}

	if limits.CacheBytes > 0 {
		c.cacheSem = semaphore.NewWeighted(limits.CacheBytes)
	}
	if limits.UploadBytesPerSec > 0 {
		c.upload = rate.NewLimiter(rate.Limit(limits.UploadBytesPerSec), int(limits.UploadBytesPerSec))
	}

	return c
}

// ReserveCache reserves n bytes of cache memory without blocking.
func (c *Controller) ReserveCache(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.cacheSem != nil && !c.cacheSem.TryAcquire(n) {
		return ErrCacheBudgetExceeded
	}
	c.cacheUsed.Add(n)
	return nil
}

// ReleaseCache returns n bytes reserved with ReserveCache.
func (c *Controller) ReleaseCache(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.cacheSem != nil {
		c.cacheSem.Release(n)
	}
	c.cacheUsed.Add(-n)
}

// CacheUsage returns the reserved cache memory in bytes.
func (c *Controller) CacheUsage() int64 {
	if c == nil {
		return 0
	}
	return c.cacheUsed.Load()
}

// Workers returns the number of worker slots.
func (c *Controller) Workers() int {
	if c == nil {
		return 1
	}
	return int(c.limits.Workers)
}

// AcquireWorker blocks until a worker slot is free or ctx is done.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// ReleaseWorker frees a slot taken with AcquireWorker.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// WaitUpload blocks until n bytes may be uploaded. Requests larger than
// the per-second budget are split into budget-sized waits.
func (c *Controller) WaitUpload(ctx context.Context, n int) error {
	if c == nil || c.upload == nil {
		return nil
	}
	burst := c.upload.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := c.upload.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
