package model

import "time"

// SessionState is the externally visible state of one admin session.
type SessionState struct {
	SessionID  string          `json:"sessionId"`
	ClientID   string          `json:"clientId,omitempty"`
	OpenedAt   time.Time       `json:"openedAt"`
	Entities   []Restaurant    `json:"entities"`
	State      AdminPanelState `json:"state"`
	Draft      *Restaurant     `json:"draft,omitempty"`
	Dependents *Dependents     `json:"dependents,omitempty"`
}

// OpenSessionRequest is the payload for opening an admin session.
type OpenSessionRequest struct {
	ClientID string `json:"clientId"`
}

// SelectRequest is the payload for selecting a restaurant.
type SelectRequest struct {
	RestaurantID string `json:"restaurantId"`
}

// FieldEditRequest is the payload for changing one field of the draft.
type FieldEditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}
