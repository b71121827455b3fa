// Package admin implements the per-session administration core: the selection
// and edit controller and the CRUD orchestrator, both operating on one shared
// session state.
package admin

import (
	"context"

	"restaurant-admin/internal/model"
)

// DataAccess is the backend collaborator the admin core talks to. All calls
// may block; errors may carry a user-displayable message.
type DataAccess interface {
	// List returns the restaurants owned by clientID, or all when clientID is empty.
	List(ctx context.Context, clientID string) ([]model.Restaurant, error)

	// Create persists a new restaurant. The backend assigns id and timestamps.
	Create(ctx context.Context, input model.RestaurantInput) (*model.Restaurant, error)

	// Update applies patch to the restaurant and returns the stored result.
	Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error)

	// ToggleStatus flips IsOpen and returns the stored result.
	ToggleStatus(ctx context.Context, id string) (*model.Restaurant, error)

	// FetchDependents returns tables, products, menus and stats of a restaurant.
	FetchDependents(ctx context.Context, restaurantID string) (*model.Dependents, error)
}

// FormValidator enforces field-level rules before data reaches the backend.
type FormValidator interface {
	ValidateInput(input model.RestaurantInput) error
	ValidatePatch(patch model.RestaurantPatch) error
}
