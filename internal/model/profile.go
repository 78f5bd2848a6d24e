package model

import (
	"strings"
	"time"
)

// ProfileID uniquely identifies a profile across the system.
// Comparison is case-insensitive; use NormalizeID before indexing.
type ProfileID string

// NormalizeID returns the canonical form of a profile id used for
// lookups and uniqueness checks.
func NormalizeID(id ProfileID) ProfileID {
	return ProfileID(strings.ToLower(strings.TrimSpace(string(id))))
}

// MeterCeiling is the upper bound for the happiness/hunger/energy meters.
const MeterCeiling = 100.0

// Profile represents one user of the system
type Profile struct {
	ID           ProfileID     `json:"id"`
	DisplayName  string        `json:"display_name"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActiveAt time.Time     `json:"last_active_at"`
	Active       bool          `json:"active"`
	Stats        Stats         `json:"stats"`
	Customization Customization `json:"customization"`
}

// Stats holds the mutable numeric state of a profile.
// Every field has a floor (and the meters a ceiling) enforced by Clamp.
type Stats struct {
	Coins             int     `json:"coins"`
	Experience        int     `json:"experience"`
	Happiness         float64 `json:"happiness"`
	Hunger            float64 `json:"hunger"`
	Energy            float64 `json:"energy"`
	Streak            int     `json:"streak"`
	HomeworkCompleted int     `json:"homework_completed"`
	DaysActive        int     `json:"days_active"`
}

// Customization holds the character appearance selections
type Customization struct {
	EyeScale  float64 `json:"eye_scale"`
	Outfit    string  `json:"outfit"`
	Accessory string  `json:"accessory"`
}

// StatLimits holds the floor/ceiling constants applied after every mutation.
// Supplied at construction; see config.Settings.
type StatLimits struct {
	HappinessFloor float64
	HungerFloor    float64
	EnergyFloor    float64
	MinEyeScale    float64
	MaxEyeScale    float64
}

// DefaultStatLimits returns the stock limits
func DefaultStatLimits() StatLimits {
	return StatLimits{
		HappinessFloor: 0,
		HungerFloor:    0,
		EnergyFloor:    0,
		MinEyeScale:    0.5,
		MaxEyeScale:    2.0,
	}
}

// Clamp forces every stat back inside its declared bounds.
// Out-of-range values are clamped, never rejected.
func (s *Stats) Clamp(limits StatLimits) {
	if s.Coins < 0 {
		s.Coins = 0
	}
	if s.Experience < 0 {
		s.Experience = 0
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
	if s.HomeworkCompleted < 0 {
		s.HomeworkCompleted = 0
	}
	if s.DaysActive < 1 {
		s.DaysActive = 1
	}
	s.Happiness = clampMeter(s.Happiness, limits.HappinessFloor)
	s.Hunger = clampMeter(s.Hunger, limits.HungerFloor)
	s.Energy = clampMeter(s.Energy, limits.EnergyFloor)
}

// Clamp forces the eye scale inside its declared bounds
func (c *Customization) Clamp(limits StatLimits) {
	if c.EyeScale < limits.MinEyeScale {
		c.EyeScale = limits.MinEyeScale
	}
	if c.EyeScale > limits.MaxEyeScale {
		c.EyeScale = limits.MaxEyeScale
	}
}

func clampMeter(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	if v > MeterCeiling {
		return MeterCeiling
	}
	return v
}

// Level derives the character level from experience points
func (p *Profile) Level(experiencePerLevel int) int {
	if experiencePerLevel <= 0 {
		return 1
	}
	return p.Stats.Experience/experiencePerLevel + 1
}

// Mood describes the character's emotional state derived from happiness
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
)

// MoodFor maps a happiness value onto a mood given the configured thresholds
func MoodFor(happiness, happyThreshold, sadThreshold float64) Mood {
	switch {
	case happiness >= happyThreshold:
		return MoodHappy
	case happiness < sadThreshold:
		return MoodSad
	default:
		return MoodNeutral
	}
}
