package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sangsom/minime/internal/autosave"
	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/dependencies/clock"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/notify"
	"github.com/sangsom/minime/internal/persist"
	filebackend "github.com/sangsom/minime/internal/persist/file"
	redisbackend "github.com/sangsom/minime/internal/persist/redis"
	"github.com/sangsom/minime/internal/rewards"
	"github.com/sangsom/minime/internal/session"
	"github.com/sangsom/minime/internal/store"
)

// App contains all wired application components. One instance is
// created at process start and lives for the run duration; there are
// no package-level singletons.
type App struct {
	Settings config.Settings
	Clock    clock.Clock

	Store     *store.Store
	Backend   persist.Backend
	Writer    *persist.Writer
	Scheduler *autosave.Scheduler
	Hub       *notify.Hub
	Sessions  *session.Manager
	Rewards   *rewards.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the service configuration; zero value means defaults
	Settings config.Settings
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Clock overrides the system clock (for testing)
	Clock clock.Clock
	// Backend overrides the configured snapshot backend (for testing)
	Backend persist.Backend
}

// New creates a new application with all dependencies wired and the
// persisted profiles loaded. The autosave loop and notification hub
// are already running when New returns.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	settings := cfg.Settings
	if settings == (config.Settings{}) {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	backend := cfg.Backend
	if backend == nil {
		var err error
		backend, err = newBackend(settings)
		if err != nil {
			return nil, err
		}
	}

	st := store.New(settings.StatLimits())

	// Load contract: missing snapshot yields an empty store; corrupt
	// data is logged and the service starts empty rather than crashing.
	profiles, err := persist.Load(context.Background(), backend)
	switch {
	case errors.Is(err, model.ErrCorruptData):
		logger.Error("persisted profiles are corrupt, starting with empty store",
			slog.String("error", err.Error()))
	case err != nil:
		return nil, fmt.Errorf("load profiles: %w", err)
	default:
		st.Replace(profiles)
		logger.Info("profiles loaded", slog.Int("count", st.Len()))
	}

	writer := persist.NewWriter(backend, st, logger)

	hub := notify.NewHub(logger)
	go hub.Run()

	sessions := session.New(st, hub, clk, settings.Defaults, logger)
	rewardsService := rewards.New(st, sessions, hub, clk, settings.Rewards, logger)

	scheduler := autosave.New(st, writer, settings.Autosave, logger)
	scheduler.Start()

	return &App{
		Settings:  settings,
		Clock:     clk,
		Store:     st,
		Backend:   backend,
		Writer:    writer,
		Scheduler: scheduler,
		Hub:       hub,
		Sessions:  sessions,
		Rewards:   rewardsService,
	}, nil
}

// newBackend creates the snapshot backend selected by configuration
func newBackend(settings config.Settings) (persist.Backend, error) {
	switch settings.Persistence.Backend {
	case config.BackendFile:
		return filebackend.New(settings.Persistence.SaveFile), nil
	case config.BackendRedis:
		redisCfg := redisbackend.DefaultConfig()
		redisCfg.URL = settings.Persistence.RedisURL
		backend, err := redisbackend.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("redis backend: %w", err)
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("invalid storage backend %q", settings.Persistence.Backend)
	}
}

// Close shuts the application down, flushing any unsaved mutations
// before returning. The flush error, if any, must reach the operator:
// it means the most recent session's data may not be saved.
func (a *App) Close() error {
	err := a.Scheduler.Close()
	if werr := a.Writer.Close(); err == nil {
		err = werr
	}
	a.Hub.Close()

	if closer, ok := a.Backend.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}

	return err
}
