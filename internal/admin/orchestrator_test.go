package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validInput(name string) model.RestaurantInput {
	return model.RestaurantInput{
		Name:        name,
		Description: "Seasonal tasting menus",
		Address:     "5 Harbour Road",
		Phone:       "+44 20 7946 0000",
		Email:       "hello@example.com",
		ClientID:    testClientID,
		IsOpen:      true,
	}
}

func TestOrchestrator_ToggleStatusScenario(t *testing.T) {
	backend := newFakeBackend(testTime, seedRestaurant("1", true))
	session := newTestSession(backend, seedRestaurant("1", true))
	ctx := context.Background()

	first, err := session.Orchestrator.ToggleStatus(ctx, "1")
	require.NoError(t, err)
	assert.False(t, first.IsOpen)
	assert.True(t, first.UpdatedAt.After(testTime))

	second, err := session.Orchestrator.ToggleStatus(ctx, "1")
	require.NoError(t, err)
	assert.True(t, second.IsOpen)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	stored, err := session.Restaurant("1")
	require.NoError(t, err)
	assert.True(t, stored.IsOpen)
}

func TestOrchestrator_ToggleRefreshesSelection(t *testing.T) {
	backend := newFakeBackend(testTime, seedRestaurant("1", true))
	session := newTestSession(backend, seedRestaurant("1", true))
	ctx := context.Background()

	require.NoError(t, session.Controller.Select(ctx, "1"))
	_, err := session.Orchestrator.ToggleStatus(ctx, "1")
	require.NoError(t, err)

	selected, ok := session.Controller.Selected()
	require.True(t, ok)
	assert.False(t, selected.IsOpen)
}

func TestOrchestrator_UpdateAppliesPatch(t *testing.T) {
	backend := newFakeBackend(testTime, seedRestaurant("1", true))
	session := newTestSession(backend, seedRestaurant("1", true))
	ctx := context.Background()

	require.NoError(t, session.Controller.Select(ctx, "1"))
	before, err := session.Restaurant("1")
	require.NoError(t, err)

	newName := "Harbour Kitchen"
	newPhone := "+44 20 7946 1111"
	updated, err := session.Orchestrator.Update(ctx, "1", model.RestaurantPatch{Name: &newName, Phone: &newPhone})
	require.NoError(t, err)

	got, err := session.Restaurant("1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.Equal(t, newName, got.Name)
	assert.Equal(t, newPhone, got.Phone)
	assert.True(t, got.UpdatedAt.After(before.UpdatedAt))

	// Fields outside the patch are unchanged.
	assert.Equal(t, before.Description, got.Description)
	assert.Equal(t, before.Address, got.Address)
	assert.Equal(t, before.Email, got.Email)
	assert.Equal(t, before.Website, got.Website)
	assert.Equal(t, before.ClientID, got.ClientID)
	assert.Equal(t, before.IsOpen, got.IsOpen)
	assert.Equal(t, before.CreatedAt, got.CreatedAt)

	selected, ok := session.Controller.Selected()
	require.True(t, ok)
	assert.Equal(t, newName, selected.Name)
}

func TestOrchestrator_UpdatedAtStrictlyIncreases(t *testing.T) {
	data := new(MockDataAccess)
	session := newTestSession(data, seedRestaurant("1", true))
	ctx := context.Background()

	// Backend echoes the same timestamp every time.
	same := seedRestaurant("1", true)
	data.On("Update", ctx, "1", mock.AnythingOfType("model.RestaurantPatch")).Return(&same, nil)

	name := "Same Clock"
	previous := testTime
	for i := 0; i < 3; i++ {
		got, err := session.Orchestrator.Update(ctx, "1", model.RestaurantPatch{Name: &name})
		require.NoError(t, err)
		assert.True(t, got.UpdatedAt.After(previous))
		previous = got.UpdatedAt
	}
}

func TestOrchestrator_NotFoundFailsFast(t *testing.T) {
	data := new(MockDataAccess)
	session := newTestSession(data, seedRestaurant("1", true))
	ctx := context.Background()
	name := "Does Not Matter"

	_, err := session.Orchestrator.Update(ctx, "missing", model.RestaurantPatch{Name: &name})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = session.Orchestrator.ToggleStatus(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	state := session.State()
	assert.Nil(t, state.LastError)
	assert.False(t, state.IsLoading)
	data.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	data.AssertNotCalled(t, "ToggleStatus", mock.Anything, mock.Anything)
}

func TestOrchestrator_Create(t *testing.T) {
	backend := newFakeBackend(testTime, seedRestaurant("1", true))
	session := newTestSession(backend, seedRestaurant("1", true))
	ctx := context.Background()

	created, err := session.Orchestrator.Create(ctx, validInput("Corner Cafe"))
	require.NoError(t, err)

	assert.Equal(t, "new-Corner Cafe", created.ID)
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))
	assert.Len(t, session.Restaurants(), 2)
	got, err := session.Restaurant(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// Not auto-selected.
	assert.Nil(t, session.State().SelectedEntityID)
	assert.Nil(t, session.State().LastError)
}

func TestOrchestrator_CreateValidationScenario(t *testing.T) {
	data := new(MockDataAccess)
	session := newTestSession(data, seedRestaurant("1", true))
	ctx := context.Background()
	before := session.Restaurants()

	_, err := session.Orchestrator.Create(ctx, model.RestaurantInput{Name: "A", Description: "short"})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidationFailed)
	assert.Equal(t, before, session.Restaurants())
	state := session.State()
	require.NotNil(t, state.LastError)
	assert.Equal(t, model.ErrCodeValidationFailed, state.LastError.Code)
	assert.False(t, state.IsLoading)
	data.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrchestrator_CreateBackendFailure(t *testing.T) {
	tests := []struct {
		name         string
		backendError error
		expectedCode string
		expectedMsg  string
	}{
		{
			name:         "Network error",
			backendError: errors.New("dial tcp: connection refused"),
			expectedCode: model.ErrCodeOperationFailed,
			expectedMsg:  "dial tcp: connection refused",
		},
		{
			name:         "Backend validation passthrough",
			backendError: model.NewValidationError([]model.FieldError{{Field: "name", Key: "validation.name.taken"}}),
			expectedCode: model.ErrCodeValidationFailed,
		},
		{
			name:         "Backend operation error keeps its message",
			backendError: model.NewOperationError(nil, "Service temporarily unavailable"),
			expectedCode: model.ErrCodeOperationFailed,
			expectedMsg:  "Service temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := new(MockDataAccess)
			session := newTestSession(data, seedRestaurant("1", true))
			ctx := context.Background()
			input := validInput("Broken Bistro")

			data.On("Create", ctx, input).Return(nil, tt.backendError)

			_, err := session.Orchestrator.Create(ctx, input)

			require.Error(t, err)
			assert.Len(t, session.Restaurants(), 1)
			state := session.State()
			require.NotNil(t, state.LastError)
			assert.Equal(t, tt.expectedCode, state.LastError.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, state.LastError.Message)
			}
			assert.False(t, state.IsLoading)
			data.AssertExpectations(t)
		})
	}
}

func TestOrchestrator_LastErrorClearedByNextOperation(t *testing.T) {
	data := new(MockDataAccess)
	session := newTestSession(data, seedRestaurant("1", true))
	ctx := context.Background()

	data.On("ToggleStatus", ctx, "1").Return(nil, errors.New("timeout")).Once()
	toggled := seedRestaurant("1", false)
	data.On("ToggleStatus", ctx, "1").Return(&toggled, nil).Once()

	_, err := session.Orchestrator.ToggleStatus(ctx, "1")
	require.Error(t, err)
	require.NotNil(t, session.State().LastError)

	// Store untouched by the failed attempt.
	stored, err := session.Restaurant("1")
	require.NoError(t, err)
	assert.True(t, stored.IsOpen)

	_, err = session.Orchestrator.ToggleStatus(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, session.State().LastError)
	data.AssertExpectations(t)
}

func TestOrchestrator_RejectsOverlappingOperations(t *testing.T) {
	backend := newFakeBackend(testTime, seedRestaurant("1", true), seedRestaurant("2", true))
	backend.hold = make(chan struct{})
	backend.entered = make(chan struct{}, 1)
	session := newTestSession(backend, seedRestaurant("1", true), seedRestaurant("2", true))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := session.Orchestrator.ToggleStatus(ctx, "1")
		done <- err
	}()

	select {
	case <-backend.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("toggle never reached the backend")
	}
	assert.True(t, session.State().IsLoading)

	name := "Overlapping Name"
	_, err := session.Orchestrator.Update(ctx, "1", model.RestaurantPatch{Name: &name})
	assert.ErrorIs(t, err, model.ErrOperationInFlight)
	_, err = session.Orchestrator.ToggleStatus(ctx, "2")
	assert.ErrorIs(t, err, model.ErrOperationInFlight)
	_, err = session.Orchestrator.Create(ctx, validInput("Overlap Diner"))
	assert.ErrorIs(t, err, model.ErrOperationInFlight)
	assert.ErrorIs(t, session.Controller.Select(ctx, "2"), model.ErrOperationInFlight)
	assert.ErrorIs(t, session.Controller.BeginEdit(), model.ErrOperationInFlight)

	// Rejections leave the in-flight operation's state alone.
	assert.Nil(t, session.State().LastError)
	assert.Len(t, session.Restaurants(), 2)

	close(backend.hold)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("toggle never completed")
	}

	state := session.State()
	assert.False(t, state.IsLoading)
	stored, err := session.Restaurant("1")
	require.NoError(t, err)
	assert.False(t, stored.IsOpen)
	assert.Equal(t, "Restaurant 1", stored.Name)

	// Accepted again once the first operation finished.
	backend.hold = nil
	_, err = session.Orchestrator.ToggleStatus(ctx, "2")
	require.NoError(t, err)
}

func TestOrchestrator_BrokenBackendReleasesSession(t *testing.T) {
	name := "Harbour Kitchen"
	operations := []struct {
		name string
		run  func(ctx context.Context, s *Session) error
	}{
		{name: "create", run: func(ctx context.Context, s *Session) error {
			_, err := s.Orchestrator.Create(ctx, validInput("Broken Bistro"))
			return err
		}},
		{name: "update", run: func(ctx context.Context, s *Session) error {
			_, err := s.Orchestrator.Update(ctx, "1", model.RestaurantPatch{Name: &name})
			return err
		}},
		{name: "toggle", run: func(ctx context.Context, s *Session) error {
			_, err := s.Orchestrator.ToggleStatus(ctx, "1")
			return err
		}},
		{name: "select", run: func(ctx context.Context, s *Session) error {
			return s.Controller.Select(ctx, "1")
		}},
	}
	backends := []struct {
		name    string
		backend brokenBackend
	}{
		{name: "nil result", backend: brokenBackend{}},
		{name: "panic", backend: brokenBackend{panics: true}},
	}

	for _, op := range operations {
		for _, b := range backends {
			t.Run(op.name+" "+b.name, func(t *testing.T) {
				session := newTestSession(b.backend, seedRestaurant("1", true))
				ctx := context.Background()

				var err error
				require.NotPanics(t, func() { err = op.run(ctx, session) })
				assert.ErrorIs(t, err, model.ErrOperationFailed)

				state := session.State()
				assert.False(t, state.IsLoading)
				require.NotNil(t, state.LastError)
				assert.Equal(t, model.ErrCodeOperationFailed, state.LastError.Code)

				stored, err := session.Restaurant("1")
				require.NoError(t, err)
				assert.Equal(t, seedRestaurant("1", true), stored)
				assert.Len(t, session.Restaurants(), 1)

				// The session accepts the next operation.
				err = session.Controller.Select(ctx, "1")
				assert.NotErrorIs(t, err, model.ErrOperationInFlight)
				assert.ErrorIs(t, err, model.ErrOperationFailed)
			})
		}
	}
}
