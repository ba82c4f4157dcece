package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Dispatcher runs one goroutine per task. A positive limit caps how many run
// at the same time; the rest block on the semaphore before fn is called.
type Dispatcher struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher. limit <= 0 means unlimited.
func NewDispatcher(limit int, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{logger: logger}
	if limit > 0 {
		d.sem = semaphore.NewWeighted(int64(limit))
	}
	return d
}

// Go runs fn in its own goroutine. A panic inside fn is recovered and passed
// to onError as an error so the caller can record it against the task.
func (d *Dispatcher) Go(taskID string, fn func(), onError func(error)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if d.sem != nil {
			// Acquire with a background context only fails on a weight above the limit.
			if err := d.sem.Acquire(context.Background(), 1); err != nil {
				d.logger.Error("acquire worker slot", "task_id", taskID, "error", err)
				if onError != nil {
					onError(err)
				}
				return
			}
			defer d.sem.Release(1)
		}

		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("worker panic",
					"task_id", taskID,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				if onError != nil {
					onError(fmt.Errorf("%v", r))
				}
			}
		}()

		fn()
	}()
}

// Wait blocks until every started goroutine returns or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
