package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/store"
)

// ErrWriterClosed is returned by RequestSave after Close
var ErrWriterClosed = errors.New("persistence writer is closed")

// job is one serialized snapshot waiting to be written
type job struct {
	data  []byte
	gen   uint64
	count int
}

// Writer persists store snapshots without blocking the caller. A
// single worker goroutine performs the actual backend writes; callers
// only pay for serialization.
//
// Single-flight policy: at most one write is in progress and at most
// one follow-up is pending. A burst of RequestSave calls collapses to
// the newest pending snapshot, so the queue can never grow unbounded.
type Writer struct {
	backend Backend
	store   *store.Store
	logger  *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending *job
	writing bool
	closed  bool
	lastErr error

	kick    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewWriter creates a writer and starts its worker goroutine
func NewWriter(backend Backend, st *store.Store, logger *slog.Logger) *Writer {
	w := &Writer{
		backend: backend,
		store:   st,
		logger:  logger.With(slog.String("component", "persist")),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// RequestSave serializes the snapshot synchronously (no I/O) and hands
// it to the background worker, replacing any not-yet-started pending
// save. Returns immediately; write errors are logged by the worker and
// retried by the next scheduled save because the dirty flag stays set.
func (w *Writer) RequestSave(snapshot []model.Profile, gen uint64) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	w.pending = &job{data: data, gen: gen, count: len(snapshot)}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until no write is in progress or pending, then returns
// the result of the most recent write attempt. Used by shutdown, which
// deliberately waits without a timeout: durability of the last batch of
// mutations takes priority over shutdown latency.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.pending != nil || w.writing {
		w.cond.Wait()
	}
	return w.lastErr
}

// Close drains any pending write, stops the worker and returns the
// final write result. The writer rejects further save requests.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return w.Flush()
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	<-w.stopped
	return w.Flush()
}

func (w *Writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.kick:
			w.drain()
		case <-w.done:
			w.drain()
			return
		}
	}
}

// drain writes pending snapshots until none remain. Coalescing happens
// naturally: only the newest pending job is ever taken.
func (w *Writer) drain() {
	for {
		w.mu.Lock()
		j := w.pending
		w.pending = nil
		if j == nil {
			w.mu.Unlock()
			return
		}
		w.writing = true
		w.mu.Unlock()

		err := w.backend.WriteSnapshot(context.Background(), j.data)

		w.mu.Lock()
		w.writing = false
		w.lastErr = err
		w.cond.Broadcast()
		w.mu.Unlock()

		if err != nil {
			// Dirty flag stays set; the next scheduled save retries.
			// No immediate retry to avoid hot-looping on a bad disk.
			w.logger.Error("profile save failed",
				slog.String("error", err.Error()),
				slog.Int("profiles", j.count))
			continue
		}

		w.store.ClearDirty(j.gen)
		w.logger.Info("profiles saved",
			slog.Int("profiles", j.count),
			slog.Int("bytes", len(j.data)))
	}
}

// Load reads the persisted document from the backend. A missing
// snapshot yields an empty collection. Corrupt data is returned as
// model.ErrCorruptData so the caller can fail safe with an empty store.
func Load(ctx context.Context, backend Backend) ([]model.Profile, error) {
	data, err := backend.ReadSnapshot(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
