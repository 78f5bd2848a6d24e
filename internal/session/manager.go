package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/dependencies/clock"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/notify"
	"github.com/sangsom/minime/internal/store"
)

// Manager is the façade gameplay code talks to for identity
// operations. It owns the current-session pointer; all record state
// lives in the store.
type Manager struct {
	store    *store.Store
	hub      *notify.Hub
	clock    clock.Clock
	defaults config.ProfileDefaults
	logger   *slog.Logger

	mu        sync.RWMutex
	currentID model.ProfileID // normalized; empty when logged out
}

// New creates a session manager
func New(st *store.Store, hub *notify.Hub, clk clock.Clock, defaults config.ProfileDefaults, logger *slog.Logger) *Manager {
	return &Manager{
		store:    st,
		hub:      hub,
		clock:    clk,
		defaults: defaults,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Register creates a profile with the given id and default stats. The
// id must be non-empty after trimming and unique case-insensitively.
func (m *Manager) Register(id model.ProfileID, displayName string) (model.Profile, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return model.Profile{}, fmt.Errorf("%w: profile id must not be empty", model.ErrValidation)
	}
	return m.register(model.ProfileID(trimmed), displayName)
}

// RegisterNew creates a profile with a generated id
func (m *Manager) RegisterNew(displayName string) (model.Profile, error) {
	return m.register(model.ProfileID(uuid.NewString()), displayName)
}

func (m *Manager) register(id model.ProfileID, displayName string) (model.Profile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = string(id)
	}

	now := m.clock.Now()
	p := model.Profile{
		ID:           id,
		DisplayName:  displayName,
		CreatedAt:    now,
		LastActiveAt: now,
		Active:       true,
		Stats: model.Stats{
			Coins:      m.defaults.StartingCoins,
			Happiness:  m.defaults.StartingHappiness,
			Hunger:     m.defaults.StartingHunger,
			Energy:     m.defaults.StartingEnergy,
			DaysActive: m.defaults.StartingDays,
		},
		Customization: model.Customization{
			EyeScale:  m.defaults.EyeScale,
			Outfit:    m.defaults.Outfit,
			Accessory: m.defaults.Accessory,
		},
	}

	if err := m.store.Insert(p); err != nil {
		return model.Profile{}, err
	}

	created, _ := m.store.FindByID(id)
	m.logger.Info("profile registered",
		slog.String("profile_id", string(created.ID)),
		slog.String("display_name", created.DisplayName))
	return created, nil
}

// Login activates a session for the given id. Inactive or unknown
// profiles fail identically so callers cannot probe soft-deleted ids.
func (m *Manager) Login(id model.ProfileID) (model.Profile, error) {
	p, ok := m.store.FindByID(id)
	if !ok || !p.Active {
		return model.Profile{}, fmt.Errorf("%w: %q", model.ErrProfileNotFound, id)
	}

	now := m.clock.Now()
	updated, err := m.store.Mutate(p.ID, func(rec *model.Profile) error {
		rec.LastActiveAt = now
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}

	m.mu.Lock()
	m.currentID = model.NormalizeID(p.ID)
	m.mu.Unlock()

	m.logger.Info("login", slog.String("profile_id", string(updated.ID)))
	m.hub.Publish(notify.EventAt(now, model.EventLogin, updated))
	return updated, nil
}

// Logout clears the current session. A no-op when nobody is logged in.
func (m *Manager) Logout() {
	m.mu.Lock()
	id := m.currentID
	m.currentID = ""
	m.mu.Unlock()

	if id == "" {
		return
	}

	p, ok := m.store.FindByID(id)
	if !ok {
		return
	}
	m.logger.Info("logout", slog.String("profile_id", string(p.ID)))
	m.hub.Publish(notify.EventAt(m.clock.Now(), model.EventLogout, p))
}

// Current returns a copy of the active session's profile
func (m *Manager) Current() (model.Profile, bool) {
	id, ok := m.CurrentID()
	if !ok {
		return model.Profile{}, false
	}
	return m.store.FindByID(id)
}

// CurrentID returns the normalized id of the active session
func (m *Manager) CurrentID() (model.ProfileID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currentID == "" {
		return "", false
	}
	return m.currentID, true
}

// Deactivate soft-deletes a profile. The record stays in the store and
// the save file for audit; it just can no longer log in. If it is the
// current session it is logged out first.
func (m *Manager) Deactivate(id model.ProfileID) error {
	m.mu.Lock()
	if m.currentID == model.NormalizeID(id) {
		m.currentID = ""
		if p, ok := m.store.FindByID(id); ok {
			m.hub.Publish(notify.EventAt(m.clock.Now(), model.EventLogout, p))
		}
	}
	m.mu.Unlock()

	_, err := m.store.Mutate(id, func(rec *model.Profile) error {
		rec.Active = false
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("profile deactivated", slog.String("profile_id", string(id)))
	return nil
}
