package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sangsom/minime/internal/api/request"
	"github.com/sangsom/minime/internal/api/response"
	"github.com/sangsom/minime/internal/model"
	"github.com/sangsom/minime/internal/rewards"
	"github.com/sangsom/minime/internal/session"
)

// SessionHandler handles login/logout and current-session endpoints
type SessionHandler struct {
	sessions *session.Manager
	rewards  *rewards.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, svc *rewards.Service) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		rewards:  svc,
	}
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.ID == "" {
		WriteError(w, NewInvalidRequestError("id is required"))
		return
	}

	profile, err := h.sessions.Login(model.ProfileID(req.ID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, profileView(h.rewards, profile))
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()
	response.NoContent(w)
}

// Current handles GET /api/v1/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.sessions.Current()
	if !ok {
		WriteError(w, model.ErrNoSession)
		return
	}

	response.JSON(w, http.StatusOK, profileView(h.rewards, profile))
}
