package model

// TableStatus is the operational status of a dining table.
type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableOccupied    TableStatus = "occupied"
	TableReserved    TableStatus = "reserved"
	TableMaintenance TableStatus = "maintenance"
)

// Valid reports whether s is a known table status.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

// Table represents a dining table in a restaurant.
type Table struct {
	ID           string      `json:"id" db:"id"`
	RestaurantID string      `json:"restaurantId" db:"restaurant_id"`
	Number       int         `json:"number" db:"number"`
	Capacity     int         `json:"capacity" db:"capacity"`
	Status       TableStatus `json:"status" db:"status"`
}

// TableInput represents the payload for adding a table to a restaurant.
type TableInput struct {
	Number   int         `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}
