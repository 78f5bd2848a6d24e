package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sangsom/minime/internal/api/request"
	"github.com/sangsom/minime/internal/api/response"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/rewards"
	"github.com/sangsom/minime/internal/session"
	"github.com/sangsom/minime/internal/store"
)

// ProfileHandler handles profile lifecycle endpoints
type ProfileHandler struct {
	store    *store.Store
	sessions *session.Manager
	rewards  *rewards.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(st *store.Store, sessions *session.Manager, svc *rewards.Service) *ProfileHandler {
	return &ProfileHandler{
		store:    st,
		sessions: sessions,
		rewards:  svc,
	}
}

// Register handles POST /api/v1/profiles
func (h *ProfileHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	var (
		profile model.Profile
		err     error
	)
	if req.ID == "" {
		profile, err = h.sessions.RegisterNew(req.DisplayName)
	} else {
		profile, err = h.sessions.Register(model.ProfileID(req.ID), req.DisplayName)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, profileView(h.rewards, profile))
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, _ := h.store.Snapshot()

	views := make([]response.Profile, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, profileView(h.rewards, p))
	}

	response.JSON(w, http.StatusOK, response.ProfileList{
		Profiles: views,
		Count:    len(views),
	})
}

// Get handles GET /api/v1/profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(mux.Vars(r)["id"])

	profile, ok := h.store.FindByID(id)
	if !ok {
		WriteError(w, model.ErrProfileNotFound)
		return
	}

	response.JSON(w, http.StatusOK, profileView(h.rewards, profile))
}

// Deactivate handles DELETE /api/v1/profiles/{id}
func (h *ProfileHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(mux.Vars(r)["id"])

	if err := h.sessions.Deactivate(id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
