package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sangsom/minime/internal/api/handler"
	apimiddleware "github.com/sangsom/minime/internal/api/middleware"
	"github.com/sangsom/minime/internal/autosave"
	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/middleware"
	"github.com/sangsom/minime/internal/notify"
	"github.com/sangsom/minime/internal/rewards"
	"github.com/sangsom/minime/internal/session"
	"github.com/sangsom/minime/internal/store"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Settings  config.Settings
	Store     *store.Store
	Sessions  *session.Manager
	Rewards   *rewards.Service
	Scheduler *autosave.Scheduler
	Hub       *notify.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	profileHandler := handler.NewProfileHandler(cfg.Store, cfg.Sessions, cfg.Rewards)
	sessionHandler := handler.NewSessionHandler(cfg.Sessions, cfg.Rewards)
	rewardsHandler := handler.NewRewardsHandler(cfg.Rewards)
	adminHandler := handler.NewAdminHandler(cfg.Store, cfg.Scheduler, cfg.Hub, cfg.Settings)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(apimiddleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Profile lifecycle
	api.HandleFunc("/profiles", profileHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/profiles", profileHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{id}", profileHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{id}", profileHandler.Deactivate).Methods(http.MethodDelete)

	// Session
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", sessionHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/session", sessionHandler.Current).Methods(http.MethodGet)

	// Gameplay mutations on the current session
	api.HandleFunc("/rewards/homework", rewardsHandler.CompleteHomework).Methods(http.MethodPost)
	api.HandleFunc("/rewards/coins/grant", rewardsHandler.GrantCoins).Methods(http.MethodPost)
	api.HandleFunc("/rewards/coins/spend", rewardsHandler.SpendCoins).Methods(http.MethodPost)
	api.HandleFunc("/rewards/happiness", rewardsHandler.AdjustHappiness).Methods(http.MethodPost)
	api.HandleFunc("/rewards/decay", rewardsHandler.ApplyDecay).Methods(http.MethodPost)
	api.HandleFunc("/rewards/streak", rewardsHandler.RecordStreak).Methods(http.MethodPost)
	api.HandleFunc("/profile", rewardsHandler.Rename).Methods(http.MethodPatch)
	api.HandleFunc("/profile/customization", rewardsHandler.Customize).Methods(http.MethodPatch)

	// Persistence and service state
	api.HandleFunc("/save", adminHandler.Save).Methods(http.MethodPost)
	api.HandleFunc("/status", adminHandler.Status).Methods(http.MethodGet)

	// Event stream
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
