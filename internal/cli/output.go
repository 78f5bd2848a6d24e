package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Profile:
		o.printProfile(v)
	case ProfileList:
		o.printProfileList(v)
	case SaveResult:
		o.printSaveResult(v)
	case StatusResult:
		o.printStatusResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Stats response type (matches API)
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

// Customization response type
type Customization struct {
	EyeScale  float64 `json:"eye_scale"`
	Outfit    string  `json:"outfit"`
	Accessory string  `json:"accessory"`
}

// Profile response type
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

// ProfileList response type
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
	Count    int       `json:"count"`
}

// SaveResult response type
type SaveResult struct {
	Saved bool `json:"saved"`
}

// StatusResult response type
type StatusResult struct {
	Profiles        int    `json:"profiles"`
	Dirty           bool   `json:"dirty"`
	AutosaveEnabled bool   `json:"autosave_enabled"`
	Subscribers     int    `json:"subscribers"`
	Backend         string `json:"backend"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printProfile(p Profile) {
	activeStr := "yes"
	if !p.Active {
		activeStr = "no"
	}
	fmt.Printf("Profile: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Active: %s\n", activeStr)
	fmt.Printf("Mood: %s\n", p.Mood)
	fmt.Printf("Level: %d (%d xp)\n", p.Level, p.Stats.Experience)
	fmt.Printf("Coins: %d\n", p.Stats.Coins)
	fmt.Printf("Happiness: %.1f  Hunger: %.1f  Energy: %.1f\n",
		p.Stats.Happiness, p.Stats.Hunger, p.Stats.Energy)
	fmt.Printf("Streak: %d days (%d active, %d homework done)\n",
		p.Stats.Streak, p.Stats.DaysActive, p.Stats.HomeworkCompleted)
	fmt.Printf("Look: outfit=%s accessory=%s eye_scale=%.2f\n",
		p.Customization.Outfit, p.Customization.Accessory, p.Customization.EyeScale)
	fmt.Printf("Last active: %s\n", p.LastActiveAt.Format(time.RFC3339))
}

func (o *Output) printProfileList(l ProfileList) {
	fmt.Printf("Profiles (%d):\n", l.Count)
	for _, p := range l.Profiles {
		marker := ""
		if !p.Active {
			marker = " [inactive]"
		}
		fmt.Printf("  - %s (%s) - level %d, %d coins%s\n",
			p.DisplayName, p.ID, p.Level, p.Stats.Coins, marker)
	}
}

func (o *Output) printSaveResult(s SaveResult) {
	if s.Saved {
		fmt.Println("Save requested")
	} else {
		fmt.Println("Nothing to save")
	}
}

func (o *Output) printStatusResult(s StatusResult) {
	dirtyStr := "clean"
	if s.Dirty {
		dirtyStr = "dirty"
	}
	autosaveStr := "enabled"
	if !s.AutosaveEnabled {
		autosaveStr = "disabled"
	}
	fmt.Printf("Profiles: %d\n", s.Profiles)
	fmt.Printf("Store: %s\n", dirtyStr)
	fmt.Printf("Autosave: %s\n", autosaveStr)
	fmt.Printf("Backend: %s\n", s.Backend)
	fmt.Printf("Event subscribers: %d\n", s.Subscribers)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
