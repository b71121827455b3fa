package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"restaurant-admin/internal/i18n"
	"restaurant-admin/internal/model"
	"restaurant-admin/internal/service"

	"github.com/rs/zerolog"
)

// SessionHandler handles admin session HTTP requests.
type SessionHandler struct {
	service service.AdminService
	errors  errorWriter
	logger  zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service service.AdminService, translator *i18n.Translator, logger zerolog.Logger) *SessionHandler {
	logger = logger.With().Str("handler", "session").Logger()
	return &SessionHandler{
		service: service,
		errors:  errorWriter{translator: translator, logger: logger},
		logger:  logger,
	}
}

// Open handles POST /api/sessions requests. An empty body opens an
// all-tenants session.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req model.OpenSessionRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.errors.writeCode(w, r, model.ErrCodeInvalidJSON, "error.invalid_json")
		return
	}

	state, err := h.service.OpenSession(r.Context(), req.ClientID)
	if err != nil {
		h.errors.write(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, state)
}

// Close handles DELETE /api/sessions/{id} requests.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		h.errors.write(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// State handles GET /api/sessions/{id} requests.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.write(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// View handles GET /api/sessions/{id}/view?mode=&back=&lang= requests.
func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := service.ViewRequest{
		Mode:           query.Get("mode"),
		Lang:           query.Get("lang"),
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
	if req.Mode == "" {
		h.errors.writeCode(w, r, model.ErrCodeMissingField, "error.missing_field")
		return
	}
	if back := query.Get("back"); back != "" {
		showBack, err := strconv.ParseBool(back)
		if err != nil {
			h.errors.writeCode(w, r, model.ErrCodeInvalidParameter, "error.invalid_parameter")
			return
		}
		req.ShowBack = showBack
	}

	lv, err := h.service.View(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.errors.write(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Language", lv.Locale)
	writeJSON(w, http.StatusOK, lv)
}

// Select handles POST /api/sessions/{id}/select requests.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req model.SelectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.writeCode(w, r, model.ErrCodeInvalidJSON, "error.invalid_json")
		return
	}
	if req.RestaurantID == "" {
		h.errors.writeCode(w, r, model.ErrCodeMissingField, "error.missing_field")
		return
	}

	state, err := h.service.Select(r.Context(), r.PathValue("id"), req.RestaurantID)
	h.respond(w, r, http.StatusOK, state, err)
}

// BeginEdit handles POST /api/sessions/{id}/edit requests.
func (h *SessionHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.BeginEdit(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, state, err)
}

// UpdateField handles PATCH /api/sessions/{id}/edit requests.
func (h *SessionHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req model.FieldEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errors.writeCode(w, r, model.ErrCodeInvalidJSON, "error.invalid_json")
		return
	}
	if req.Field == "" {
		h.errors.writeCode(w, r, model.ErrCodeMissingField, "error.missing_field")
		return
	}

	state, err := h.service.UpdateField(r.Context(), r.PathValue("id"), req.Field, req.Value)
	h.respond(w, r, http.StatusOK, state, err)
}

// CancelEdit handles DELETE /api/sessions/{id}/edit requests.
func (h *SessionHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.CancelEdit(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, state, err)
}

// Save handles POST /api/sessions/{id}/save requests.
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Save(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, state, err)
}

// CreateRestaurant handles POST /api/sessions/{id}/restaurants requests.
func (h *SessionHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var input model.RestaurantInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.errors.writeCode(w, r, model.ErrCodeInvalidJSON, "error.invalid_json")
		return
	}

	state, err := h.service.CreateRestaurant(r.Context(), r.PathValue("id"), input)
	h.respond(w, r, http.StatusCreated, state, err)
}

// UpdateRestaurant handles PATCH /api/sessions/{id}/restaurants/{rid} requests.
func (h *SessionHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	var patch model.RestaurantPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.errors.writeCode(w, r, model.ErrCodeInvalidJSON, "error.invalid_json")
		return
	}

	state, err := h.service.UpdateRestaurant(r.Context(), r.PathValue("id"), r.PathValue("rid"), patch)
	h.respond(w, r, http.StatusOK, state, err)
}

// ToggleStatus handles POST /api/sessions/{id}/restaurants/{rid}/toggle requests.
func (h *SessionHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.ToggleStatus(r.Context(), r.PathValue("id"), r.PathValue("rid"))
	h.respond(w, r, http.StatusOK, state, err)
}

// RemoveRestaurant handles DELETE /api/sessions/{id}/restaurants/{rid}.
// Removal is not offered by the admin core.
func (h *SessionHandler) RemoveRestaurant(w http.ResponseWriter, r *http.Request) {
	h.errors.write(w, r, model.ErrUnsupported, nil)
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, status int, state *model.SessionState, err error) {
	if err != nil {
		h.errors.write(w, r, err, state)
		return
	}
	writeJSON(w, status, state)
}
