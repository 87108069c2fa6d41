package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrDispatcherClosed is returned when work is submitted after Close.
var ErrDispatcherClosed = errors.New("loader: dispatcher closed")

// Dispatcher runs submitted closures on a fixed set of goroutines.
type Dispatcher struct {
	workCh   chan func()
	stopCh   chan struct{}
	wg       sync.WaitGroup
	closed   atomic.Bool
	submitMu sync.RWMutex
}

// NewDispatcher starts a dispatcher with numWorkers goroutines.
// With one worker, closures run in submission order.
func NewDispatcher(numWorkers int) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	d := &Dispatcher{
		workCh: make(chan func(), numWorkers*8),
		stopCh: make(chan struct{}),
	}

	d.wg.Add(numWorkers)
	for range numWorkers {
		go d.worker()
	}

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			// Drain remaining work before exiting
			for {
				select {
				case fn, ok := <-d.workCh:
					if !ok {
						return
					}
					fn()
				default:
					return
				}
			}
		case fn, ok := <-d.workCh:
			if !ok {
				return
			}
			fn()
		}
	}
}

// Submit enqueues fn and returns without waiting for it to run.
func (d *Dispatcher) Submit(ctx context.Context, fn func()) error {
	d.submitMu.RLock()
	defer d.submitMu.RUnlock()

	if d.closed.Load() {
		return ErrDispatcherClosed
	}

	select {
	case d.workCh <- fn:
		return nil
	case <-d.stopCh:
		return ErrDispatcherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until all closures submitted before the call have run.
// Only meaningful for single-worker dispatchers.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	if err := d.Submit(ctx, func() { close(done) }); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending work and stops the workers. Idempotent.
func (d *Dispatcher) Close() {
	if !d.closed.CompareAndSwap(false, true) {
		return
	}

	d.submitMu.Lock()
	close(d.stopCh)
	close(d.workCh)
	d.submitMu.Unlock()

	d.wg.Wait()
}
