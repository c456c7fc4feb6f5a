package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Closer flushes and stops a logging pipeline on shutdown.
type Closer interface {
	Close()
}

// nopCloser is the Closer for synchronous mode.
type nopCloser struct{}

func (nopCloser) Close() {}

// entry pairs a record with the handler that accepted it, so attributes
// added via WithAttrs or WithGroup survive the queue hop.
type entry struct {
	h   slog.Handler
	rec slog.Record
}

// asyncCore is the queue and worker pool shared by an AsyncHandler and
// every handler derived from it.
type asyncCore struct {
	queue   chan entry
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// AsyncHandler decouples log emission from I/O: Handle enqueues and
// returns immediately while a worker pool performs the writes. When the
// queue is full the record is dropped rather than blocking the caller.
type AsyncHandler struct {
	inner slog.Handler
	core  *asyncCore
}

// NewAsyncHandler wraps inner with a queue of the given capacity drained
// by the given number of workers.
func NewAsyncHandler(inner slog.Handler, capacity, workers int) *AsyncHandler {
	core := &asyncCore{queue: make(chan entry, capacity)}
	for range workers {
		core.wg.Add(1)
		go func() {
			defer core.wg.Done()
			for e := range core.queue {
				_ = e.h.Handle(context.Background(), e.rec)
			}
		}()
	}
	return &AsyncHandler{inner: inner, core: core}
}

// Enabled delegates to the inner handler.
func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle enqueues the record, dropping it when the queue is full.
func (h *AsyncHandler) Handle(_ context.Context, rec slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	select {
	case h.core.queue <- entry{h: h.inner, rec: rec}:
	default:
		h.core.dropped.Add(1)
	}
	return nil
}

// WithAttrs derives a handler that shares the queue and worker pool.
func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithAttrs(attrs), core: h.core}
}

// WithGroup derives a handler that shares the queue and worker pool.
func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{inner: h.inner.WithGroup(name), core: h.core}
}

// DroppedCount reports how many records were discarded on a full queue.
func (h *AsyncHandler) DroppedCount() int64 {
	return h.core.dropped.Load()
}

// Close stops intake and blocks until every queued record is written.
func (h *AsyncHandler) Close() {
	close(h.core.queue)
	h.core.wg.Wait()
}
