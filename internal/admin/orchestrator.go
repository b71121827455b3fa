package admin

import (
	"context"
	"fmt"

	"restaurant-admin/internal/model"

	"github.com/rs/zerolog"
)

// Orchestrator runs create, update and toggle-status operations against the
// data-access collaborator. At most one operation runs per session; a call
// made while another is in flight fails with model.ErrOperationInFlight and
// changes nothing.
type Orchestrator struct {
	s         *sessionState
	data      DataAccess
	validator FormValidator
	logger    zerolog.Logger
}

func newOrchestrator(s *sessionState, data DataAccess, validator FormValidator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		s:         s,
		data:      data,
		validator: validator,
		logger:    logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Create validates input and asks the backend to create a restaurant. The
// result is added to the store but not selected. Create is not idempotent.
func (o *Orchestrator) Create(ctx context.Context, input model.RestaurantInput) (model.Restaurant, error) {
	o.s.mu.Lock()
	if err := o.s.guard(); err != nil {
		o.s.mu.Unlock()
		o.logger.Warn().Msg("create rejected, operation in flight")
		return model.Restaurant{}, err
	}
	o.s.begin()
	o.s.mu.Unlock()

	if o.validator != nil {
		if err := o.validator.ValidateInput(input); err != nil {
			return model.Restaurant{}, o.fail("create", "", err)
		}
	}

	created, err := call(func() (*model.Restaurant, error) {
		return o.data.Create(ctx, input)
	})
	if err != nil {
		return model.Restaurant{}, o.fail("create", "", err)
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	stored := o.s.store.Upsert(*created)
	o.s.finish(nil)

	o.logger.Info().
		Str("restaurant_id", stored.ID).
		Str("client_id", stored.ClientID).
		Msg("restaurant created")

	return stored, nil
}

// Update applies patch to the restaurant with the given id. An unknown id is a
// caller error and fails with model.ErrNotFound without touching lastError.
func (o *Orchestrator) Update(ctx context.Context, id string, patch model.RestaurantPatch) (model.Restaurant, error) {
	o.s.mu.Lock()
	if err := o.s.guard(); err != nil {
		o.s.mu.Unlock()
		o.logger.Warn().Str("restaurant_id", id).Msg("update rejected, operation in flight")
		return model.Restaurant{}, err
	}
	if !o.s.store.Has(id) {
		o.s.mu.Unlock()
		return model.Restaurant{}, fmt.Errorf("failed to update restaurant: %w", model.NotFound("restaurant", id))
	}
	o.s.begin()
	o.s.mu.Unlock()

	return o.update(ctx, id, patch, nil)
}

// ToggleStatus flips IsOpen on the restaurant with the given id.
func (o *Orchestrator) ToggleStatus(ctx context.Context, id string) (model.Restaurant, error) {
	o.s.mu.Lock()
	if err := o.s.guard(); err != nil {
		o.s.mu.Unlock()
		o.logger.Warn().Str("restaurant_id", id).Msg("toggle rejected, operation in flight")
		return model.Restaurant{}, err
	}
	if !o.s.store.Has(id) {
		o.s.mu.Unlock()
		return model.Restaurant{}, fmt.Errorf("failed to toggle restaurant status: %w", model.NotFound("restaurant", id))
	}
	o.s.begin()
	o.s.mu.Unlock()

	toggled, err := call(func() (*model.Restaurant, error) {
		return o.data.ToggleStatus(ctx, id)
	})
	if err != nil {
		return model.Restaurant{}, o.fail("toggle_status", id, err)
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	stored := o.s.store.Upsert(*toggled)
	o.s.finish(nil)

	o.logger.Info().
		Str("restaurant_id", id).
		Bool("is_open", stored.IsOpen).
		Msg("restaurant status toggled")

	return stored, nil
}

// update runs an update whose in-flight flag has already been set. onSuccess
// runs under the session lock after the store has been updated.
func (o *Orchestrator) update(
	ctx context.Context,
	id string,
	patch model.RestaurantPatch,
	onSuccess func(stored model.Restaurant),
) (model.Restaurant, error) {
	if o.validator != nil {
		if err := o.validator.ValidatePatch(patch); err != nil {
			return model.Restaurant{}, o.fail("update", id, err)
		}
	}

	updated, err := call(func() (*model.Restaurant, error) {
		return o.data.Update(ctx, id, patch)
	})
	if err != nil {
		return model.Restaurant{}, o.fail("update", id, err)
	}

	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	stored := o.s.store.Upsert(*updated)
	if onSuccess != nil {
		onSuccess(stored)
	}
	o.s.finish(nil)

	o.logger.Info().Str("restaurant_id", id).Msg("restaurant updated")

	return stored, nil
}

// fail records err as lastError, ends the operation and returns the recorded error.
func (o *Orchestrator) fail(op, id string, err error) error {
	derr := asDomainError(err)

	o.s.mu.Lock()
	o.s.finish(derr)
	o.s.mu.Unlock()

	o.logger.Warn().
		Err(err).
		Str("operation", op).
		Str("restaurant_id", id).
		Str("code", derr.Code).
		Msg("operation failed")

	return derr
}
