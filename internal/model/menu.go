package model

// Menu represents a named, ordered selection of products for one restaurant.
type Menu struct {
	ID           string     `json:"id" db:"id"`
	RestaurantID string     `json:"restaurantId" db:"restaurant_id"`
	Name         string     `json:"name" db:"name"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	Items        []MenuItem `json:"items"`
}

// MenuItem is a snapshot of a product taken when the menu was assembled.
// Later changes to the product do not affect it.
type MenuItem struct {
	ProductID   string  `json:"productId" db:"product_id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Category    string  `json:"category" db:"category"`
	Position    int     `json:"position" db:"position"`
}

// RestaurantStats holds backend-computed counters for a restaurant.
type RestaurantStats struct {
	TableCount        int                 `json:"tableCount"`
	TablesByStatus    map[TableStatus]int `json:"tablesByStatus"`
	ProductCount      int                 `json:"productCount"`
	AvailableProducts int                 `json:"availableProducts"`
	MenuCount         int                 `json:"menuCount"`
	ActiveMenus       int                 `json:"activeMenus"`
}

// Dependents groups the data shown alongside a selected restaurant.
type Dependents struct {
	Tables   []Table         `json:"tables"`
	Products []Product       `json:"products"`
	Menus    []Menu          `json:"menus"`
	Stats    RestaurantStats `json:"stats"`
}

// MenuInput assembles a menu from existing products, in the given order.
type MenuInput struct {
	Name       string   `json:"name"`
	IsActive   bool     `json:"isActive"`
	ProductIDs []string `json:"productIds"`
}

// SnapshotItems copies products into menu items, positioned from 1 in order.
func SnapshotItems(products []Product) []MenuItem {
	items := make([]MenuItem, 0, len(products))
	for i, p := range products {
		items = append(items, MenuItem{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Position:    i + 1,
		})
	}
	return items
}

// ComputeStats derives the counters for a set of dependents.
func ComputeStats(tables []Table, products []Product, menus []Menu) RestaurantStats {
	stats := RestaurantStats{
		TableCount:     len(tables),
		TablesByStatus: map[TableStatus]int{},
		ProductCount:   len(products),
		MenuCount:      len(menus),
	}
	for _, t := range tables {
		stats.TablesByStatus[t.Status]++
	}
	for _, p := range products {
		if p.IsAvailable {
			stats.AvailableProducts++
		}
	}
	for _, m := range menus {
		if m.IsActive {
			stats.ActiveMenus++
		}
	}
	return stats
}
