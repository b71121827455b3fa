package model

import "time"

// Restaurant represents one restaurant owned by a client (tenant).
type Restaurant struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Address     string    `json:"address" db:"address"`
	Phone       string    `json:"phone" db:"phone"`
	Email       string    `json:"email" db:"email"`
	Website     *string   `json:"website,omitempty" db:"website"`
	ClientID    string    `json:"clientId" db:"client_id"`
	IsOpen      bool      `json:"isOpen" db:"is_open"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy of the restaurant.
func (r Restaurant) Clone() Restaurant {
	out := r
	if r.Website != nil {
		website := *r.Website
		out.Website = &website
	}
	return out
}

// RestaurantInput represents the payload for creating a restaurant.
type RestaurantInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Website     *string `json:"website,omitempty"`
	ClientID    string  `json:"clientId"`
	IsOpen      bool    `json:"isOpen"`
}

// RestaurantPatch represents a partial update. Nil fields are left untouched.
type RestaurantPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p RestaurantPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil &&
		p.Phone == nil && p.Email == nil && p.Website == nil
}

// Apply returns a copy of r with the patch applied. An empty website clears it.
func (p RestaurantPatch) Apply(r Restaurant) Restaurant {
	out := r.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Address != nil {
		out.Address = *p.Address
	}
	if p.Phone != nil {
		out.Phone = *p.Phone
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Website != nil {
		if *p.Website == "" {
			out.Website = nil
		} else {
			website := *p.Website
			out.Website = &website
		}
	}
	return out
}

// Editable restaurant fields, as accepted by the edit controller.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldWebsite     = "website"
)

// EditableFields lists the fields that can be changed through an edit session.
var EditableFields = []string{FieldName, FieldDescription, FieldAddress, FieldPhone, FieldEmail, FieldWebsite}

// Diff builds the patch that turns before into after, covering editable fields only.
func Diff(before, after Restaurant) RestaurantPatch {
	var p RestaurantPatch
	if before.Name != after.Name {
		p.Name = stringPtr(after.Name)
	}
	if before.Description != after.Description {
		p.Description = stringPtr(after.Description)
	}
	if before.Address != after.Address {
		p.Address = stringPtr(after.Address)
	}
	if before.Phone != after.Phone {
		p.Phone = stringPtr(after.Phone)
	}
	if before.Email != after.Email {
		p.Email = stringPtr(after.Email)
	}
	if websiteValue(before.Website) != websiteValue(after.Website) {
		p.Website = stringPtr(websiteValue(after.Website))
	}
	return p
}

func stringPtr(s string) *string {
	return &s
}

func websiteValue(w *string) string {
	if w == nil {
		return ""
	}
	return *w
}
