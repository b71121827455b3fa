package admin

import (
	"context"
	"fmt"

	"restaurant-admin/internal/model"

	"github.com/rs/zerolog"
)

// Controller tracks which restaurant is selected and whether it is being
// edited.
//
//	Idle --Select--> Selected --BeginEdit--> Editing
//	Editing --CancelEdit|Save--> Selected
//	any --Select--> Selected
//
// While editing, changes go to a scratch copy; the store is only touched by a
// successful Save.
type Controller struct {
	s            *sessionState
	data         DataAccess
	orchestrator *Orchestrator
	logger       zerolog.Logger
}

func newController(s *sessionState, data DataAccess, orchestrator *Orchestrator, logger zerolog.Logger) *Controller {
	return &Controller{
		s:            s,
		data:         data,
		orchestrator: orchestrator,
		logger:       logger.With().Str("component", "controller").Logger(),
	}
}

// Select makes id the current selection, discarding any scratch buffer, and
// loads the restaurant's dependents. If loading them fails the selection is
// kept and the failure is recorded as lastError.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.s.mu.Lock()
	if err := c.s.guard(); err != nil {
		c.s.mu.Unlock()
		return err
	}
	if !c.s.store.Has(id) {
		c.s.mu.Unlock()
		return fmt.Errorf("failed to select restaurant: %w", model.NotFound("restaurant", id))
	}
	selected := id
	c.s.panel.SelectedEntityID = &selected
	c.s.endEdit()
	c.s.dependents = nil
	c.s.begin()
	c.s.mu.Unlock()

	deps, err := call(func() (*model.Dependents, error) {
		return c.data.FetchDependents(ctx, id)
	})

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err != nil {
		derr := asDomainError(err)
		c.s.finish(derr)
		c.logger.Warn().Err(err).Str("restaurant_id", id).Msg("failed to fetch dependents")
		return derr
	}
	c.s.dependents = deps
	c.s.finish(nil)

	c.logger.Debug().Str("restaurant_id", id).Msg("restaurant selected")

	return nil
}

// BeginEdit copies the selected restaurant into a scratch buffer.
func (c *Controller) BeginEdit() error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.guard(); err != nil {
		return err
	}
	if c.s.panel.SelectedEntityID == nil || c.s.panel.IsEditing {
		return fmt.Errorf("failed to begin edit: %w", model.ErrInvalidTransition)
	}

	current, err := c.s.store.Get(*c.s.panel.SelectedEntityID)
	if err != nil {
		return fmt.Errorf("failed to begin edit: %w", err)
	}
	c.s.startEdit(current)

	return nil
}

// UpdateField changes one field of the scratch buffer. An empty website
// clears it.
func (c *Controller) UpdateField(field, value string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.guard(); err != nil {
		return err
	}
	if !c.s.panel.IsEditing || c.s.draft == nil {
		return fmt.Errorf("failed to update field: %w", model.ErrInvalidTransition)
	}

	switch field {
	case model.FieldName:
		c.s.draft.Name = value
	case model.FieldDescription:
		c.s.draft.Description = value
	case model.FieldAddress:
		c.s.draft.Address = value
	case model.FieldPhone:
		c.s.draft.Phone = value
	case model.FieldEmail:
		c.s.draft.Email = value
	case model.FieldWebsite:
		if value == "" {
			c.s.draft.Website = nil
		} else {
			website := value
			c.s.draft.Website = &website
		}
	default:
		return fmt.Errorf("failed to update field %q: %w", field, model.ErrUnknownField)
	}

	return nil
}

// CancelEdit drops the scratch buffer. The store is left unchanged.
func (c *Controller) CancelEdit() error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if err := c.s.guard(); err != nil {
		return err
	}
	if !c.s.panel.IsEditing {
		return fmt.Errorf("failed to cancel edit: %w", model.ErrInvalidTransition)
	}
	c.s.endEdit()

	return nil
}

// Save sends the fields changed since BeginEdit to the orchestrator, so
// updates made to the restaurant meanwhile are kept. On failure the session
// stays in edit mode with the scratch buffer intact. A buffer without changes
// leaves edit mode without calling the backend.
func (c *Controller) Save(ctx context.Context) error {
	c.s.mu.Lock()
	if err := c.s.guard(); err != nil {
		c.s.mu.Unlock()
		return err
	}
	if !c.s.panel.IsEditing || c.s.draft == nil || c.s.editBase == nil || c.s.panel.SelectedEntityID == nil {
		c.s.mu.Unlock()
		return fmt.Errorf("failed to save: %w", model.ErrInvalidTransition)
	}

	id := *c.s.panel.SelectedEntityID
	if !c.s.store.Has(id) {
		c.s.mu.Unlock()
		return fmt.Errorf("failed to save: %w", model.NotFound("restaurant", id))
	}

	patch := model.Diff(*c.s.editBase, *c.s.draft)
	if patch.IsEmpty() {
		c.s.endEdit()
		c.s.mu.Unlock()
		c.logger.Debug().Str("restaurant_id", id).Msg("nothing to save")
		return nil
	}
	c.s.begin()
	c.s.mu.Unlock()

	_, err := c.orchestrator.update(ctx, id, patch, func(model.Restaurant) {
		c.s.endEdit()
	})
	return err
}

// Selected returns the currently selected restaurant as stored, so it always
// reflects the latest successful update.
func (c *Controller) Selected() (model.Restaurant, bool) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.panel.SelectedEntityID == nil {
		return model.Restaurant{}, false
	}
	r, err := c.s.store.Get(*c.s.panel.SelectedEntityID)
	if err != nil {
		return model.Restaurant{}, false
	}
	return r, true
}

// Draft returns a copy of the scratch buffer, or nil when not editing.
func (c *Controller) Draft() *model.Restaurant {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.draft == nil {
		return nil
	}
	draft := c.s.draft.Clone()
	return &draft
}

// Dependents returns the dependents loaded for the current selection.
func (c *Controller) Dependents() *model.Dependents {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.s.dependents == nil {
		return nil
	}
	deps := *c.s.dependents
	return &deps
}
