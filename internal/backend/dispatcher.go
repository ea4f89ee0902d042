package backend

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/Proton-105/cortex-client/internal/errors"
	"github.com/Proton-105/cortex-client/pkg/metrics"
)

const defaultTaskTimeout = 15 * time.Second

// Task is a unit of detached backend work.
type Task func(ctx context.Context) error

// Dispatcher runs fire-and-forget backend calls. A task's outcome is logged and counted and
// never reaches the caller; tasks are not retried.
type Dispatcher struct {
	log     *slog.Logger
	errs    *apperrors.Handler
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher that bounds every task by timeout. errs may be nil.
func NewDispatcher(log *slog.Logger, errs *apperrors.Handler, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}

	return &Dispatcher{log: log, errs: errs, timeout: timeout}
}

// Go starts fn in its own goroutine and returns immediately. The task keeps the values of ctx
// but not its cancellation.
func (d *Dispatcher) Go(ctx context.Context, name string, fn Task) {
	if fn == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("background task panicked", "task", name, "panic", r)
				metrics.RecordBackendSync(name, metrics.SyncFailed)
			}
		}()

		started := time.Now()
		err := fn(taskCtx)
		d.finish(taskCtx, name, err, time.Since(started))
	}()
}

func (d *Dispatcher) finish(ctx context.Context, name string, err error, elapsed time.Duration) {
	switch {
	case err == nil:
		metrics.RecordBackendSync(name, metrics.SyncOK)
		d.log.DebugContext(ctx, "background task finished", "task", name, "duration", elapsed)
		return
	case errors.Is(err, context.DeadlineExceeded):
		metrics.RecordBackendSync(name, metrics.SyncTimeout)
	default:
		metrics.RecordBackendSync(name, metrics.SyncFailed)
	}

	if d.errs != nil {
		d.errs.Handle(ctx, err)
		return
	}
	d.log.WarnContext(ctx, "background task failed", "task", name, "error", err)
}

// Wait blocks until every started task has returned or ctx is done.
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
