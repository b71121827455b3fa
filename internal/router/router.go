package router

import (
	"net/http"

	"restaurant-admin/internal/handler"
	"restaurant-admin/internal/middleware"

	"github.com/rs/zerolog"
)

// Config holds the transport settings the router needs.
type Config struct {
	APIKey        string
	AllowedOrigin string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	sessionHandler *handler.SessionHandler,
	cfg Config,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Session lifecycle
	mux.HandleFunc("POST /api/sessions", sessionHandler.Open)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.State)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.Close)
	mux.HandleFunc("GET /api/sessions/{id}/view", sessionHandler.View)

	// Selection and edit
	mux.HandleFunc("POST /api/sessions/{id}/select", sessionHandler.Select)
	mux.HandleFunc("POST /api/sessions/{id}/edit", sessionHandler.BeginEdit)
	mux.HandleFunc("PATCH /api/sessions/{id}/edit", sessionHandler.UpdateField)
	mux.HandleFunc("DELETE /api/sessions/{id}/edit", sessionHandler.CancelEdit)
	mux.HandleFunc("POST /api/sessions/{id}/save", sessionHandler.Save)

	// Restaurant operations
	mux.HandleFunc("POST /api/sessions/{id}/restaurants", sessionHandler.CreateRestaurant)
	mux.HandleFunc("PATCH /api/sessions/{id}/restaurants/{rid}", sessionHandler.UpdateRestaurant)
	mux.HandleFunc("DELETE /api/sessions/{id}/restaurants/{rid}", sessionHandler.RemoveRestaurant)
	mux.HandleFunc("POST /api/sessions/{id}/restaurants/{rid}/toggle", sessionHandler.ToggleStatus)

	// Apply middleware in order: Recovery -> Logging -> RequestID -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(cfg.APIKey, logger)(handler)
	handler = middleware.CORS(cfg.AllowedOrigin)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
