package response

import (
	"time"

	"github.com/sangsom/minime/internal/model"
)

// Stats mirrors a profile's gameplay stats in API responses
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

// Customization mirrors a profile's appearance settings
type Customization struct {
	EyeScale  float64 `json:"eye_scale"`
	Outfit    string  `json:"outfit"`
	Accessory string  `json:"accessory"`
}

// Profile is the API view of a profile, with the derived mood and
// level attached
type Profile struct {
	ID            string        `json:"id"`
	DisplayName   string        `json:"display_name"`
	CreatedAt     time.Time     `json:"created_at"`
	LastActiveAt  time.Time     `json:"last_active_at"`
	Active        bool          `json:"active"`
	Stats         Stats         `json:"stats"`
	Customization Customization `json:"customization"`
	Mood          string        `json:"mood"`
	Level         int           `json:"level"`
}

// ProfileFromModel converts a model.Profile to its API view
func ProfileFromModel(p model.Profile, mood model.Mood, level int) Profile {
	return Profile{
		ID:           string(p.ID),
		DisplayName:  p.DisplayName,
		CreatedAt:    p.CreatedAt,
		LastActiveAt: p.LastActiveAt,
		Active:       p.Active,
		Stats: Stats{
			Coins:             p.Stats.Coins,
			Experience:        p.Stats.Experience,
			Happiness:         p.Stats.Happiness,
			Hunger:            p.Stats.Hunger,
			Energy:            p.Stats.Energy,
			Streak:            p.Stats.Streak,
			HomeworkCompleted: p.Stats.HomeworkCompleted,
			DaysActive:        p.Stats.DaysActive,
		},
		Customization: Customization{
			EyeScale:  p.Customization.EyeScale,
			Outfit:    p.Customization.Outfit,
			Accessory: p.Customization.Accessory,
		},
		Mood:  string(mood),
		Level: level,
	}
}

// ProfileList is the response for listing profiles
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
	Count    int       `json:"count"`
}

// SaveResult reports whether a forced save was requested
type SaveResult struct {
	Saved bool `json:"saved"`
}

// Status is the response for the service status endpoint
type Status struct {
	Profiles        int    `json:"profiles"`
	Dirty           bool   `json:"dirty"`
	AutosaveEnabled bool   `json:"autosave_enabled"`
	Subscribers     int    `json:"subscribers"`
	Backend         string `json:"backend"`
}
