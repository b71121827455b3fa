package service

import (
	"context"

	"restaurant-admin/internal/model"
	"restaurant-admin/internal/view"
)

// AdminService exposes admin sessions to transports. Every call that
// addresses a session returns its state after the call.
type AdminService interface {
	// OpenSession starts a session for clientID (empty for all tenants).
	OpenSession(ctx context.Context, clientID string) (*model.SessionState, error)

	// CloseSession ends a session and discards its state.
	CloseSession(ctx context.Context, sessionID string) error

	// State returns the current state of a session.
	State(ctx context.Context, sessionID string) (*model.SessionState, error)

	// Select makes restaurantID the session's selection and loads its dependents.
	Select(ctx context.Context, sessionID, restaurantID string) (*model.SessionState, error)

	// BeginEdit opens an edit session on the selected restaurant.
	BeginEdit(ctx context.Context, sessionID string) (*model.SessionState, error)

	// UpdateField changes one field of the edit buffer.
	UpdateField(ctx context.Context, sessionID, field, value string) (*model.SessionState, error)

	// CancelEdit drops the edit buffer.
	CancelEdit(ctx context.Context, sessionID string) (*model.SessionState, error)

	// Save persists the edit buffer.
	Save(ctx context.Context, sessionID string) (*model.SessionState, error)

	// CreateRestaurant creates a restaurant through the session.
	CreateRestaurant(ctx context.Context, sessionID string, input model.RestaurantInput) (*model.SessionState, error)

	// UpdateRestaurant applies a partial update through the session.
	UpdateRestaurant(ctx context.Context, sessionID, restaurantID string, patch model.RestaurantPatch) (*model.SessionState, error)

	// ToggleStatus flips a restaurant between open and closed.
	ToggleStatus(ctx context.Context, sessionID, restaurantID string) (*model.SessionState, error)

	// View renders the session in a presentation mode, localized.
	View(ctx context.Context, sessionID string, req ViewRequest) (*LocalizedView, error)
}

// ViewRequest selects the presentation mode and language of a view.
type ViewRequest struct {
	Mode           string
	ShowBack       bool
	Lang           string
	AcceptLanguage string
}

// LocalizedView is a view descriptor plus the text of every message key it references.
type LocalizedView struct {
	Locale   string            `json:"locale"`
	View     view.Descriptor   `json:"view"`
	Messages map[string]string `json:"messages"`
}
