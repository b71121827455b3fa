// Package view projects one admin session onto the three presentation modes.
// Projection is a pure function: it never changes the session.
package view

import (
	"fmt"

	"restaurant-admin/internal/model"
)

// Mode is a named rendering context.
type Mode string

const (
	ModeDashboard  Mode = "dashboard"
	ModeAdminPanel Mode = "admin-panel"
	ModeListing    Mode = "listing"
)

// ParseMode converts s into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDashboard, ModeAdminPanel, ModeListing:
		return Mode(s), nil
	}
	return "", fmt.Errorf("failed to parse mode %q: %w", s, model.ErrInvalidMode)
}

// Layout is the rendering shape chosen for a mode.
type Layout string

const (
	LayoutSummaryCards Layout = "summary-cards"
	LayoutTwoPane      Layout = "two-pane"
	LayoutGrid         Layout = "grid"
)

// Message keys emitted by projections.
const (
	KeyDashboardTitle   = "dashboard.title"
	KeyDashboardEmpty   = "dashboard.empty.first_restaurant"
	KeyAdminTitle       = "admin.title"
	KeyAdminEmpty       = "admin.empty.no_restaurants"
	KeyAdminPlaceholder = "admin.detail.placeholder"
	KeyListingTitle     = "listing.title"
	KeyListingEmpty     = "listing.empty"
	KeyActionCreate     = "action.create_restaurant"
	KeyActionBack       = "action.back"
	KeyStatusOpen       = "restaurant.status.open"
	KeyStatusClosed     = "restaurant.status.closed"
	KeyLoading          = "common.loading"
)

// Input is everything a projection reads.
type Input struct {
	Entities   []model.Restaurant
	State      model.AdminPanelState
	Draft      *model.Restaurant
	Dependents *model.Dependents
}

// Options tunes a projection.
type Options struct {
	// ShowBack exposes the back-navigation affordance in listing mode.
	ShowBack bool
}

// Actions lists which affordances are exposed.
type Actions struct {
	Create       bool `json:"create"`
	Back         bool `json:"back"`
	Header       bool `json:"header"`
	Select       bool `json:"select"`
	Edit         bool `json:"edit"`
	Save         bool `json:"save"`
	Cancel       bool `json:"cancel"`
	ToggleStatus bool `json:"toggleStatus"`
}

// Card is the summary of one restaurant.
type Card struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	IsOpen    bool   `json:"isOpen"`
	StatusKey string `json:"statusKey"`
	Selected  bool   `json:"selected"`
}

// EmptyState is shown instead of cards when there are no restaurants.
type EmptyState struct {
	Key       string `json:"key"`
	ActionKey string `json:"actionKey,omitempty"`
}

// Detail is the admin-panel detail pane.
type Detail struct {
	Restaurant model.Restaurant  `json:"restaurant"`
	Editing    bool              `json:"editing"`
	Draft      *model.Restaurant `json:"draft,omitempty"`
	Dependents *model.Dependents `json:"dependents,omitempty"`
}

// Banner carries the error derived from lastError.
type Banner struct {
	Code    string             `json:"code"`
	Key     string             `json:"key"`
	Message string             `json:"message,omitempty"`
	Fields  []model.FieldError `json:"fields,omitempty"`
}

// Descriptor describes what to render for one mode.
type Descriptor struct {
	Mode           Mode        `json:"mode"`
	Layout         Layout      `json:"layout"`
	TitleKey       string      `json:"titleKey,omitempty"`
	Cards          []Card      `json:"cards"`
	Empty          *EmptyState `json:"empty,omitempty"`
	Detail         *Detail     `json:"detail,omitempty"`
	PlaceholderKey string      `json:"placeholderKey,omitempty"`
	Actions        Actions     `json:"actions"`
	Loading        bool        `json:"loading"`
	Error          *Banner     `json:"error,omitempty"`
}

// Project derives the descriptor for mode from in. It fails with
// model.ErrInvalidMode for unknown modes.
func Project(mode Mode, in Input, opts Options) (Descriptor, error) {
	var d Descriptor
	switch mode {
	case ModeDashboard:
		d = dashboard(in)
	case ModeAdminPanel:
		d = adminPanel(in)
	case ModeListing:
		d = listing(in, opts)
	default:
		return Descriptor{}, fmt.Errorf("failed to project view: %w", model.ErrInvalidMode)
	}

	d.Mode = mode
	d.Loading = in.State.IsLoading
	d.Error = banner(in.State.LastError)
	if d.Loading {
		d.Actions = disableMutations(d.Actions)
	}
	return d, nil
}

func dashboard(in Input) Descriptor {
	d := Descriptor{
		Layout:   LayoutSummaryCards,
		TitleKey: KeyDashboardTitle,
		Cards:    cards(in),
		Actions:  Actions{Create: true, Header: true, Select: len(in.Entities) > 0},
	}
	if len(in.Entities) == 0 {
		d.Empty = &EmptyState{Key: KeyDashboardEmpty, ActionKey: KeyActionCreate}
	}
	return d
}

func adminPanel(in Input) Descriptor {
	d := Descriptor{
		Layout:   LayoutTwoPane,
		TitleKey: KeyAdminTitle,
		Cards:    cards(in),
		Actions:  Actions{Create: true, Header: true, Select: len(in.Entities) > 0},
	}
	if len(in.Entities) == 0 {
		d.Empty = &EmptyState{Key: KeyAdminEmpty}
	}

	selected, ok := selectedEntity(in)
	if !ok {
		d.PlaceholderKey = KeyAdminPlaceholder
		return d
	}

	detail := &Detail{
		Restaurant: selected,
		Editing:    in.State.IsEditing,
		Dependents: in.Dependents,
	}
	if in.State.IsEditing && in.Draft != nil {
		draft := in.Draft.Clone()
		detail.Draft = &draft
	}
	d.Detail = detail
	d.Actions.Edit = !in.State.IsEditing
	d.Actions.ToggleStatus = !in.State.IsEditing
	d.Actions.Save = in.State.IsEditing
	d.Actions.Cancel = in.State.IsEditing
	return d
}

func listing(in Input, opts Options) Descriptor {
	d := Descriptor{
		Layout:   LayoutGrid,
		TitleKey: KeyListingTitle,
		Cards:    cards(in),
		Actions:  Actions{Back: opts.ShowBack, Header: true, Select: len(in.Entities) > 0},
	}
	if len(in.Entities) == 0 {
		d.Empty = &EmptyState{Key: KeyListingEmpty}
	}
	return d
}

func cards(in Input) []Card {
	out := make([]Card, 0, len(in.Entities))
	for _, r := range in.Entities {
		status := KeyStatusClosed
		if r.IsOpen {
			status = KeyStatusOpen
		}
		out = append(out, Card{
			ID:        r.ID,
			Name:      r.Name,
			Address:   r.Address,
			IsOpen:    r.IsOpen,
			StatusKey: status,
			Selected:  in.State.SelectedEntityID != nil && *in.State.SelectedEntityID == r.ID,
		})
	}
	return out
}

// selectedEntity resolves the weak selection reference against the entities.
func selectedEntity(in Input) (model.Restaurant, bool) {
	if in.State.SelectedEntityID == nil {
		return model.Restaurant{}, false
	}
	for _, r := range in.Entities {
		if r.ID == *in.State.SelectedEntityID {
			return r.Clone(), true
		}
	}
	return model.Restaurant{}, false
}

func banner(err *model.DomainError) *Banner {
	if err == nil {
		return nil
	}
	return &Banner{
		Code:    err.Code,
		Key:     err.Key,
		Message: err.Message,
		Fields:  append([]model.FieldError(nil), err.Fields...),
	}
}

// disableMutations hides every affordance that would start an operation.
func disableMutations(a Actions) Actions {
	a.Create = false
	a.Select = false
	a.Edit = false
	a.Save = false
	a.Cancel = false
	a.ToggleStatus = false
	return a
}
