package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sangsom/minime/internal/api/request"
	"github.com/sangsom/minime/internal/api/response"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/rewards"
)

// RewardsHandler handles gameplay mutation endpoints. All of them act
// on the currently logged-in profile.
type RewardsHandler struct {
	rewards *rewards.Service
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(svc *rewards.Service) *RewardsHandler {
	return &RewardsHandler{rewards: svc}
}

// CompleteHomework handles POST /api/v1/rewards/homework
func (h *RewardsHandler) CompleteHomework(w http.ResponseWriter, r *http.Request) {
	profile, err := h.rewards.CompleteHomework()
	h.respond(w, profile, err)
}

// GrantCoins handles POST /api/v1/rewards/coins/grant
func (h *RewardsHandler) GrantCoins(w http.ResponseWriter, r *http.Request) {
	var req request.CoinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	profile, err := h.rewards.GrantCoins(req.Amount)
	h.respond(w, profile, err)
}

// SpendCoins handles POST /api/v1/rewards/coins/spend
func (h *RewardsHandler) SpendCoins(w http.ResponseWriter, r *http.Request) {
	var req request.CoinsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	profile, err := h.rewards.SpendCoins(req.Amount)
	h.respond(w, profile, err)
}

// AdjustHappiness handles POST /api/v1/rewards/happiness
func (h *RewardsHandler) AdjustHappiness(w http.ResponseWriter, r *http.Request) {
	var req request.HappinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	profile, err := h.rewards.AdjustHappiness(req.Delta)
	h.respond(w, profile, err)
}

// ApplyDecay handles POST /api/v1/rewards/decay, running the meters
// down for elapsed play time
func (h *RewardsHandler) ApplyDecay(w http.ResponseWriter, r *http.Request) {
	var req request.DecayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	profile, err := h.rewards.ApplyDecay(time.Duration(req.Hours * float64(time.Hour)))
	h.respond(w, profile, err)
}

// RecordStreak handles POST /api/v1/rewards/streak
func (h *RewardsHandler) RecordStreak(w http.ResponseWriter, r *http.Request) {
	profile, err := h.rewards.RecordDailyStreak()
	h.respond(w, profile, err)
}

// Rename handles PATCH /api/v1/profile
func (h *RewardsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req request.RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}
	profile, err := h.rewards.Rename(req.DisplayName)
	h.respond(w, profile, err)
}

// Customize handles PATCH /api/v1/profile/customization.
// Fields left out of the request body are not touched.
func (h *RewardsHandler) Customize(w http.ResponseWriter, r *http.Request) {
	var req request.CustomizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var (
		profile model.Profile
		err     error
		applied bool
	)
	if req.Outfit != nil {
		profile, err = h.rewards.SetOutfit(*req.Outfit)
		applied = true
	}
	if err == nil && req.Accessory != nil {
		profile, err = h.rewards.SetAccessory(*req.Accessory)
		applied = true
	}
	if err == nil && req.EyeScale != nil {
		profile, err = h.rewards.SetEyeScale(*req.EyeScale)
		applied = true
	}

	if !applied {
		WriteError(w, NewInvalidRequestError("no customization fields provided"))
		return
	}
	h.respond(w, profile, err)
}

func (h *RewardsHandler) respond(w http.ResponseWriter, profile model.Profile, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profileView(h.rewards, profile))
}
