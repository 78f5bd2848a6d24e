package handler

import (
	"net/http"

	"github.com/sangsom/minime/internal/api/response"
	"github.com/sangsom/minime/internal/autosave"
	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/notify"
	"github.com/sangsom/minime/internal/store"
)

// AdminHandler handles the forced-save and status endpoints
type AdminHandler struct {
	store     *store.Store
	scheduler *autosave.Scheduler
	hub       *notify.Hub
	settings  config.Settings
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(st *store.Store, scheduler *autosave.Scheduler, hub *notify.Hub, settings config.Settings) *AdminHandler {
	return &AdminHandler{
		store:     st,
		scheduler: scheduler,
		hub:       hub,
		settings:  settings,
	}
}

// Save handles POST /api/v1/save. A clean store is not re-saved.
func (h *AdminHandler) Save(w http.ResponseWriter, r *http.Request) {
	saved := h.scheduler.ForceSave()
	response.JSON(w, http.StatusOK, response.SaveResult{Saved: saved})
}

// Status handles GET /api/v1/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Status{
		Profiles:        h.store.Len(),
		Dirty:           h.store.IsDirty(),
		AutosaveEnabled: h.settings.Autosave.Enabled,
		Subscribers:     h.hub.SubscriberCount(),
		Backend:         h.settings.Persistence.Backend,
	})
}
