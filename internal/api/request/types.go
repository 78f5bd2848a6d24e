package request

// RegisterRequest is the request body for creating a profile.
// An empty ID asks the server to generate one.
type RegisterRequest struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for opening a session
type LoginRequest struct {
	ID string `json:"id"`
}

// CoinsRequest is the request body for granting or spending coins
type CoinsRequest struct {
	Amount int `json:"amount"`
}

// HappinessRequest is the request body for a happiness adjustment
type HappinessRequest struct {
	Delta float64 `json:"delta"`
}

// DecayRequest is the request body for applying elapsed-time meter decay
type DecayRequest struct {
	Hours float64 `json:"hours"`
}

// RenameRequest is the request body for changing the display name
type RenameRequest struct {
	DisplayName string `json:"display_name"`
}

// CustomizationRequest is the request body for appearance changes;
// nil fields are left unchanged
type CustomizationRequest struct {
	Outfit    *string  `json:"outfit,omitempty"`
	Accessory *string  `json:"accessory,omitempty"`
	EyeScale  *float64 `json:"eye_scale,omitempty"`
}
