package autosave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/persist"
	"github.com/sangsom/minime/internal/store"
)

// Scheduler decides when to ask the persistence writer for a save,
// independent of how often mutations occur. Each interval it checks
// the store's dirty flag and requests a save only when there is
// something to persist; a clean interval costs one flag read.
type Scheduler struct {
	store    *store.Store
	writer   *persist.Writer
	interval time.Duration
	enabled  bool
	logger   *slog.Logger

	mu      sync.Mutex
	running bool

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a scheduler; call Start to begin the periodic checks
func New(st *store.Store, writer *persist.Writer, cfg config.AutosaveSettings, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    st,
		writer:   writer,
		interval: cfg.Interval,
		enabled:  cfg.Enabled,
		logger:   logger.With(slog.String("component", "autosave")),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the periodic save loop. A no-op when autosave is
// disabled by configuration; ForceSave and Close still work.
func (s *Scheduler) Start() {
	if !s.enabled {
		s.logger.Info("autosave disabled")
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("autosave started", slog.Duration("interval", s.interval))
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.saveIfDirty()
		case <-s.stop:
			return
		}
	}
}

// ForceSave bypasses the interval wait, requesting an immediate save
// if the store is dirty. Returns whether a save was requested.
func (s *Scheduler) ForceSave() bool {
	return s.saveIfDirty()
}

func (s *Scheduler) saveIfDirty() bool {
	if !s.store.IsDirty() {
		return false
	}

	snapshot, gen := s.store.Snapshot()
	if err := s.writer.RequestSave(snapshot, gen); err != nil {
		s.logger.Error("save request failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// Close stops the periodic loop, performs a final save if the store is
// dirty and waits for the writer to drain. Deliberately blocks without
// a timeout: losing the last interval's mutations is worse than a slow
// shutdown. The returned error is the final write's outcome and must
// reach the operator.
func (s *Scheduler) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		<-s.stopped
	}

	s.saveIfDirty()
	return s.writer.Flush()
}
