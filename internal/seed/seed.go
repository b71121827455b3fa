// Package seed imports restaurant catalogues from gzipped NDJSON files, read
// from local disk or S3.
package seed

import (
	"context"

	"restaurant-admin/internal/model"
)

// Record is one line of a seed file: a restaurant with its dependents.
type Record struct {
	Restaurant model.RestaurantInput `json:"restaurant"`
	Tables     []model.TableInput    `json:"tables,omitempty"`
	Products   []ProductRecord       `json:"products,omitempty"`
	Menus      []MenuRecord          `json:"menus,omitempty"`
}

// ProductRecord is a product with a file-local reference used by menus.
type ProductRecord struct {
	Ref string `json:"ref"`
	model.ProductInput
}

// MenuRecord lists products by their file-local references, in menu order.
type MenuRecord struct {
	Name        string   `json:"name"`
	IsActive    bool     `json:"isActive"`
	ProductRefs []string `json:"productRefs"`
}

// Loader reads the records of one seed file.
type Loader interface {
	// Load reads a gzipped NDJSON seed file.
	Load(ctx context.Context, path string) ([]Record, error)
}

// Target is the backend the importer writes to.
type Target interface {
	List(ctx context.Context, clientID string) ([]model.Restaurant, error)
	Create(ctx context.Context, input model.RestaurantInput) (*model.Restaurant, error)
	AddTable(ctx context.Context, restaurantID string, input model.TableInput) (*model.Table, error)
	AddProduct(ctx context.Context, restaurantID string, input model.ProductInput) (*model.Product, error)
	AssembleMenu(ctx context.Context, restaurantID string, input model.MenuInput) (*model.Menu, error)
}

// Validator checks records before they are written.
type Validator interface {
	ValidateInput(input model.RestaurantInput) error
	ValidateTable(input model.TableInput) error
	ValidateProduct(input model.ProductInput) error
	ValidateMenu(input model.MenuInput) error
}
