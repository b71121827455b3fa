package repository

import (
	"context"

	"restaurant-admin/internal/admin"
	"restaurant-admin/internal/model"
)

// RestaurantRepository is the backend behind the admin core. Besides the
// admin.DataAccess contract it manages the dependents of a restaurant, which
// the seed importer uses to load catalogues.
type RestaurantRepository interface {
	admin.DataAccess

	// AddTable adds a table to an existing restaurant.
	AddTable(ctx context.Context, restaurantID string, input model.TableInput) (*model.Table, error)

	// AddProduct adds a product to an existing restaurant.
	AddProduct(ctx context.Context, restaurantID string, input model.ProductInput) (*model.Product, error)

	// AssembleMenu creates a menu from products of the same restaurant.
	// Items are snapshots: later product changes do not affect the menu.
	AssembleMenu(ctx context.Context, restaurantID string, input model.MenuInput) (*model.Menu, error)
}

func tableStatusOrDefault(s model.TableStatus) model.TableStatus {
	if s == "" {
		return model.TableAvailable
	}
	return s
}
