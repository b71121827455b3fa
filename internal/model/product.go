package model

// Product represents a product sold by one restaurant.
type Product struct {
	ID           string  `json:"id" db:"id"`
	RestaurantID string  `json:"restaurantId" db:"restaurant_id"`
	Name         string  `json:"name" db:"name"`
	Description  string  `json:"description" db:"description"`
	Price        float64 `json:"price" db:"price"`
	Category     string  `json:"category" db:"category"`
	IsAvailable  bool    `json:"isAvailable" db:"is_available"`
}

// ProductInput represents the payload for adding a product to a restaurant.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	IsAvailable bool    `json:"isAvailable"`
}
