package rewards

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/dependencies/clock"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/notify"
	"github.com/sangsom/minime/internal/session"
	"github.com/sangsom/minime/internal/store"
)

// Service applies gameplay-facing stat changes. Every change routes
// through the store's Mutate keyed by the current session's id; this is
// the only path by which gameplay logic touches persisted state.
type Service struct {
	store    *store.Store
	sessions *session.Manager
	hub      *notify.Hub
	clock    clock.Clock
	cfg      config.RewardSettings
	logger   *slog.Logger
}

// New creates a rewards service
func New(st *store.Store, sessions *session.Manager, hub *notify.Hub, clk clock.Clock, cfg config.RewardSettings, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		sessions: sessions,
		hub:      hub,
		clock:    clk,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "rewards")),
	}
}

// mutateCurrent applies fn to the logged-in profile and publishes the
// profile_updated notification exactly once on success.
func (s *Service) mutateCurrent(fn func(*model.Profile) error) (model.Profile, error) {
	id, ok := s.sessions.CurrentID()
	if !ok {
		return model.Profile{}, model.ErrNoSession
	}

	updated, err := s.store.Mutate(id, fn)
	if err != nil {
		return model.Profile{}, err
	}

	s.hub.Publish(notify.EventAt(s.clock.Now(), model.EventProfileUpdated, updated))
	return updated, nil
}

// CompleteHomework grants the configured homework rewards
func (s *Service) CompleteHomework() (model.Profile, error) {
	p, err := s.mutateCurrent(func(rec *model.Profile) error {
		rec.Stats.Experience += s.cfg.HomeworkXP
		rec.Stats.Coins += s.cfg.HomeworkCoins
		rec.Stats.Happiness += s.cfg.HomeworkHappiness
		rec.Stats.HomeworkCompleted++
		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	s.logger.Info("homework completed",
		slog.String("profile_id", string(p.ID)),
		slog.Int("total", p.Stats.HomeworkCompleted))
	return p, nil
}

// GrantCoins adds coins to the current profile's balance
func (s *Service) GrantCoins(amount int) (model.Profile, error) {
	if amount <= 0 {
		return model.Profile{}, fmt.Errorf("%w: grant amount must be positive", model.ErrValidation)
	}
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Stats.Coins += amount
		return nil
	})
}

// SpendCoins deducts coins, failing without mutation when the balance
// is insufficient.
func (s *Service) SpendCoins(amount int) (model.Profile, error) {
	if amount <= 0 {
		return model.Profile{}, fmt.Errorf("%w: spend amount must be positive", model.ErrValidation)
	}
	return s.mutateCurrent(func(rec *model.Profile) error {
		if rec.Stats.Coins < amount {
			return fmt.Errorf("%w: have %d, need %d", model.ErrInsufficientCoins, rec.Stats.Coins, amount)
		}
		rec.Stats.Coins -= amount
		return nil
	})
}

// AdjustHappiness shifts the happiness meter; the result is clamped by
// the store, never rejected.
func (s *Service) AdjustHappiness(delta float64) (model.Profile, error) {
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Stats.Happiness += delta
		return nil
	})
}

// ApplyDecay runs the meters down for the given elapsed play time
func (s *Service) ApplyDecay(elapsed time.Duration) (model.Profile, error) {
	hours := elapsed.Hours()
	if hours <= 0 {
		return model.Profile{}, fmt.Errorf("%w: elapsed time must be positive", model.ErrValidation)
	}
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Stats.Hunger -= s.cfg.HungerDecayPerHour * hours
		rec.Stats.Energy -= s.cfg.EnergyDecayPerHour * hours
		rec.Stats.Happiness -= s.cfg.HappinessDecayPerHour * hours
		return nil
	})
}

// RecordDailyStreak bumps the streak and active-day counters
func (s *Service) RecordDailyStreak() (model.Profile, error) {
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Stats.Streak++
		rec.Stats.DaysActive++
		return nil
	})
}

// Rename changes the current profile's display name
func (s *Service) Rename(displayName string) (model.Profile, error) {
	if displayName == "" {
		return model.Profile{}, fmt.Errorf("%w: display name must not be empty", model.ErrValidation)
	}
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.DisplayName = displayName
		return nil
	})
}

// SetOutfit changes the character outfit
func (s *Service) SetOutfit(outfit string) (model.Profile, error) {
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Customization.Outfit = outfit
		return nil
	})
}

// SetAccessory changes the character accessory
func (s *Service) SetAccessory(accessory string) (model.Profile, error) {
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Customization.Accessory = accessory
		return nil
	})
}

// SetEyeScale changes the eye customization; out-of-range values clamp
// to the configured bounds.
func (s *Service) SetEyeScale(scale float64) (model.Profile, error) {
	return s.mutateCurrent(func(rec *model.Profile) error {
		rec.Customization.EyeScale = scale
		return nil
	})
}

// Mood derives the character mood from a profile's happiness
func (s *Service) Mood(p model.Profile) model.Mood {
	return model.MoodFor(p.Stats.Happiness, s.cfg.HappyThreshold, s.cfg.SadThreshold)
}

// Level derives the character level from a profile's experience
func (s *Service) Level(p model.Profile) int {
	return p.Level(s.cfg.ExperiencePerLevel)
}
