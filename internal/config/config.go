package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sangsom/minime/internal/model"
)

// Storage backend names accepted by Settings.Persistence.Backend
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Settings is the full service configuration, parsed from the
// environment. All values have working defaults; nothing is required
// except MINIME_REDIS_URL when the redis backend is selected.
type Settings struct {
	Server      ServerSettings
	Persistence PersistenceSettings
	Autosave    AutosaveSettings
	Defaults    ProfileDefaults
	Rewards     RewardSettings
	Limits      LimitSettings
}

// ServerSettings configures the HTTP listener
type ServerSettings struct {
	Host string `env:"MINIME_HOST" envDefault:""`
	Port int    `env:"MINIME_PORT" envDefault:"8080"`
}

// PersistenceSettings selects and configures the snapshot backend
type PersistenceSettings struct {
	Backend  string `env:"MINIME_STORAGE" envDefault:"file"`
	SaveFile string `env:"MINIME_SAVE_FILE" envDefault:"data/user_profiles.json"`
	RedisURL string `env:"MINIME_REDIS_URL" envDefault:""`
}

// AutosaveSettings configures the periodic save scheduler
type AutosaveSettings struct {
	Enabled  bool          `env:"MINIME_AUTOSAVE_ENABLED" envDefault:"true"`
	Interval time.Duration `env:"MINIME_AUTOSAVE_INTERVAL" envDefault:"30s"`
}

// ProfileDefaults are the starting values applied to new profiles
type ProfileDefaults struct {
	StartingCoins     int     `env:"MINIME_STARTING_COINS" envDefault:"100"`
	StartingHappiness float64 `env:"MINIME_STARTING_HAPPINESS" envDefault:"75"`
	StartingHunger    float64 `env:"MINIME_STARTING_HUNGER" envDefault:"100"`
	StartingEnergy    float64 `env:"MINIME_STARTING_ENERGY" envDefault:"100"`
	StartingDays      int     `env:"MINIME_STARTING_DAYS_ACTIVE" envDefault:"1"`
	Outfit            string  `env:"MINIME_DEFAULT_OUTFIT" envDefault:"default"`
	Accessory         string  `env:"MINIME_DEFAULT_ACCESSORY" envDefault:"none"`
	EyeScale          float64 `env:"MINIME_DEFAULT_EYE_SCALE" envDefault:"1.0"`
}

// RewardSettings tune the gameplay-facing mutations
type RewardSettings struct {
	HomeworkXP            int     `env:"MINIME_HOMEWORK_XP" envDefault:"10"`
	HomeworkCoins         int     `env:"MINIME_HOMEWORK_COINS" envDefault:"5"`
	HomeworkHappiness     float64 `env:"MINIME_HOMEWORK_HAPPINESS" envDefault:"5"`
	ExperiencePerLevel    int     `env:"MINIME_XP_PER_LEVEL" envDefault:"100"`
	HappyThreshold        float64 `env:"MINIME_HAPPY_THRESHOLD" envDefault:"70"`
	SadThreshold          float64 `env:"MINIME_SAD_THRESHOLD" envDefault:"30"`
	HungerDecayPerHour    float64 `env:"MINIME_HUNGER_DECAY_PER_HOUR" envDefault:"4"`
	EnergyDecayPerHour    float64 `env:"MINIME_ENERGY_DECAY_PER_HOUR" envDefault:"2"`
	HappinessDecayPerHour float64 `env:"MINIME_HAPPINESS_DECAY_PER_HOUR" envDefault:"1"`
}

// LimitSettings are the stat floor/ceiling constants
type LimitSettings struct {
	HappinessFloor float64 `env:"MINIME_HAPPINESS_FLOOR" envDefault:"0"`
	HungerFloor    float64 `env:"MINIME_HUNGER_FLOOR" envDefault:"0"`
	EnergyFloor    float64 `env:"MINIME_ENERGY_FLOOR" envDefault:"0"`
	MinEyeScale    float64 `env:"MINIME_MIN_EYE_SCALE" envDefault:"0.5"`
	MaxEyeScale    float64 `env:"MINIME_MAX_EYE_SCALE" envDefault:"2.0"`
}

// Load reads settings from a .env file (if present) and the environment
func Load() (Settings, error) {
	// A missing .env file is fine; real environments set variables directly
	_ = godotenv.Load()

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Default returns settings with every value at its default, without
// touching the environment. Used by tests and the factory.
func Default() Settings {
	return Settings{
		Server:      ServerSettings{Port: 8080},
		Persistence: PersistenceSettings{Backend: BackendFile, SaveFile: "data/user_profiles.json"},
		Autosave:    AutosaveSettings{Enabled: true, Interval: 30 * time.Second},
		Defaults: ProfileDefaults{
			StartingCoins:     100,
			StartingHappiness: 75,
			StartingHunger:    100,
			StartingEnergy:    100,
			StartingDays:      1,
			Outfit:            "default",
			Accessory:         "none",
			EyeScale:          1.0,
		},
		Rewards: RewardSettings{
			HomeworkXP:            10,
			HomeworkCoins:         5,
			HomeworkHappiness:     5,
			ExperiencePerLevel:    100,
			HappyThreshold:        70,
			SadThreshold:          30,
			HungerDecayPerHour:    4,
			EnergyDecayPerHour:    2,
			HappinessDecayPerHour: 1,
		},
		Limits: LimitSettings{
			MinEyeScale: 0.5,
			MaxEyeScale: 2.0,
		},
	}
}

// Validate rejects configurations the service cannot run with
func (s Settings) Validate() error {
	switch s.Persistence.Backend {
	case BackendFile:
		if s.Persistence.SaveFile == "" {
			return errors.New("MINIME_SAVE_FILE required when MINIME_STORAGE=file")
		}
	case BackendRedis:
		if s.Persistence.RedisURL == "" {
			return errors.New("MINIME_REDIS_URL required when MINIME_STORAGE=redis")
		}
	default:
		return fmt.Errorf("invalid MINIME_STORAGE %q: must be %q or %q", s.Persistence.Backend, BackendFile, BackendRedis)
	}
	if s.Autosave.Interval <= 0 {
		return errors.New("MINIME_AUTOSAVE_INTERVAL must be positive")
	}
	return nil
}

// StatLimits converts the configured limits into the model's form
func (s Settings) StatLimits() model.StatLimits {
	return model.StatLimits{
		HappinessFloor: s.Limits.HappinessFloor,
		HungerFloor:    s.Limits.HungerFloor,
		EnergyFloor:    s.Limits.EnergyFloor,
		MinEyeScale:    s.Limits.MinEyeScale,
		MaxEyeScale:    s.Limits.MaxEyeScale,
	}
}
