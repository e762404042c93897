// Package interpolate runs the background interpolation of render entities.
package interpolate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benidon1974/zetaglest-source/internal/core/observability/log"
	"github.com/benidon1974/zetaglest-source/internal/core/render/entity"
)

// Interpolator computes the smoothed transforms of one batch. It should
// return soon after ctx is cancelled.
type Interpolator interface {
	Interpolate(ctx context.Context, batch *entity.Batch)
}

type InterpolatorFunc func(ctx context.Context, batch *entity.Batch)

func (f InterpolatorFunc) Interpolate(ctx context.Context, batch *entity.Batch) { f(ctx, batch) }

// Worker owns the single interpolation goroutine. At most one batch is
// pending and at most one is in flight; arming a new batch replaces the
// pending one and asks the in-flight one to stop.
type Worker struct {
	callback Interpolator
	log      log.Log

	wake chan struct{}
	done chan struct{}

	mu            sync.Mutex
	pending       *entity.Batch
	running       *entity.Batch
	cancelRunning context.CancelFunc

	quit      atomic.Bool
	started   atomic.Bool
	processed atomic.Uint64
}

func NewWorker(callback Interpolator, logger log.Log) *Worker {
	return &Worker{
		callback: callback,
		log:      logger.With(log.Component("interpolation-worker")),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start spawns the worker goroutine. Only the first call has an effect.
func (w *Worker) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.loop(context.Background())
}

// Run executes the worker loop on the calling goroutine until quit is
// requested or ctx is done. It returns immediately if the worker already runs.
func (w *Worker) Run(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		w.log.Warn("worker already running")
		return
	}
	w.loop(ctx)
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	defer w.Flush()
	w.log.Debug("worker started")

	for {
		select {
		case <-w.wake:
		case <-ctx.Done():
			w.log.Debug("worker context done", log.Error(ctx.Err()))
			return
		}
		if w.quit.Load() {
			w.log.Debug("worker quit")
			return
		}

		b, bctx := w.take(ctx)
		if b == nil {
			continue
		}
		w.callback.Interpolate(bctx, b)
		w.finish(b)
	}
}

func (w *Worker) take(ctx context.Context) (*entity.Batch, context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b := w.pending
	w.pending = nil
	if b == nil {
		return nil, nil
	}
	bctx, cancel := context.WithCancel(log.ContextWithFrame(ctx, b.Frame))
	w.running = b
	w.cancelRunning = cancel
	return b, bctx
}

func (w *Worker) finish(b *entity.Batch) {
	w.mu.Lock()
	if w.cancelRunning != nil {
		w.cancelRunning()
	}
	w.running = nil
	w.cancelRunning = nil
	w.mu.Unlock()

	b.Finish(false)
	w.processed.Add(1)
}

// Arm publishes b as the most recent batch and wakes the worker. It never
// blocks. A batch still waiting to be started is dropped; a batch in flight is
// asked to stop between entities. Re-arming the batch in flight is a no-op.
func (w *Worker) Arm(b *entity.Batch) {
	if w.quit.Load() {
		b.Finish(true)
		return
	}

	w.mu.Lock()
	if b == w.running {
		w.mu.Unlock()
		return
	}
	if w.pending != nil && w.pending != b {
		w.pending.Finish(true)
	}
	w.pending = b
	if w.running != nil {
		w.cancelRunning()
	}
	w.mu.Unlock()

	w.signal()
}

// Flush drops the pending batch and asks the in-flight one to stop.
func (w *Worker) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Finish(true)
		w.pending = nil
	}
	if w.cancelRunning != nil {
		w.cancelRunning()
	}
}

// Signalled reports whether a batch is waiting for the worker.
func (w *Worker) Signalled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil
}

// RequestQuit asks the worker to exit at its next wake-up. Work already in
// progress is allowed to complete.
func (w *Worker) RequestQuit() {
	w.quit.Store(true)
	w.signal()
}

// Stop requests quit and waits for the worker goroutine to exit.
func (w *Worker) Stop() {
	w.RequestQuit()
	if w.started.Load() {
		<-w.done
	}
}

// Processed is the number of batches the worker has finished.
func (w *Worker) Processed() uint64 {
	return w.processed.Load()
}

func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
