package admin

import (
	"context"
	"time"

	"restaurant-admin/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockDataAccess is a mock implementation of DataAccess.
type MockDataAccess struct {
	mock.Mock
}

func (m *MockDataAccess) List(ctx context.Context, clientID string) ([]model.Restaurant, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Restaurant), args.Error(1)
}

func (m *MockDataAccess) Create(ctx context.Context, input model.RestaurantInput) (*model.Restaurant, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockDataAccess) Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockDataAccess) ToggleStatus(ctx context.Context, id string) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockDataAccess) FetchDependents(ctx context.Context, restaurantID string) (*model.Dependents, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dependents), args.Error(1)
}

// fakeBackend is a small in-memory DataAccess whose calls can be held open
// to observe the in-flight guard.
type fakeBackend struct {
	restaurants map[string]model.Restaurant
	now         time.Time

	// When hold is non-nil, backend calls other than List signal entered and
	// then wait for hold.
	hold    chan struct{}
	entered chan struct{}
}

func newFakeBackend(now time.Time, rs ...model.Restaurant) *fakeBackend {
	b := &fakeBackend{restaurants: map[string]model.Restaurant{}, now: now}
	for _, r := range rs {
		b.restaurants[r.ID] = r
	}
	return b
}

func (b *fakeBackend) wait() {
	if b.hold == nil {
		return
	}
	b.entered <- struct{}{}
	<-b.hold
}

func (b *fakeBackend) tick() time.Time {
	b.now = b.now.Add(time.Second)
	return b.now
}

func (b *fakeBackend) List(ctx context.Context, clientID string) ([]model.Restaurant, error) {
	out := make([]model.Restaurant, 0, len(b.restaurants))
	for _, r := range b.restaurants {
		out = append(out, r)
	}
	return out, nil
}

func (b *fakeBackend) Create(ctx context.Context, input model.RestaurantInput) (*model.Restaurant, error) {
	b.wait()
	ts := b.tick()
	r := model.Restaurant{
		ID:          "new-" + input.Name,
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		Email:       input.Email,
		Website:     input.Website,
		ClientID:    input.ClientID,
		IsOpen:      input.IsOpen,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	b.restaurants[r.ID] = r
	return &r, nil
}

func (b *fakeBackend) Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error) {
	b.wait()
	r, ok := b.restaurants[id]
	if !ok {
		return nil, model.NotFound("restaurant", id)
	}
	r = patch.Apply(r)
	r.UpdatedAt = b.tick()
	b.restaurants[id] = r
	return &r, nil
}

func (b *fakeBackend) ToggleStatus(ctx context.Context, id string) (*model.Restaurant, error) {
	b.wait()
	r, ok := b.restaurants[id]
	if !ok {
		return nil, model.NotFound("restaurant", id)
	}
	r.IsOpen = !r.IsOpen
	r.UpdatedAt = b.tick()
	b.restaurants[id] = r
	return &r, nil
}

func (b *fakeBackend) FetchDependents(ctx context.Context, restaurantID string) (*model.Dependents, error) {
	b.wait()
	return &model.Dependents{
		Tables: []model.Table{{ID: "t1", RestaurantID: restaurantID, Number: 1, Capacity: 4, Status: model.TableAvailable}},
		Stats:  model.RestaurantStats{TableCount: 1},
	}, nil
}

// brokenBackend breaks the DataAccess contract: it either panics or reports
// success without a result.
type brokenBackend struct {
	panics bool
}

func (b brokenBackend) List(ctx context.Context, clientID string) ([]model.Restaurant, error) {
	return nil, nil
}

func (b brokenBackend) Create(ctx context.Context, input model.RestaurantInput) (*model.Restaurant, error) {
	return b.result()
}

func (b brokenBackend) Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error) {
	return b.result()
}

func (b brokenBackend) ToggleStatus(ctx context.Context, id string) (*model.Restaurant, error) {
	return b.result()
}

func (b brokenBackend) FetchDependents(ctx context.Context, restaurantID string) (*model.Dependents, error) {
	if b.panics {
		panic("dependents query exploded")
	}
	return nil, nil
}

func (b brokenBackend) result() (*model.Restaurant, error) {
	if b.panics {
		panic("restaurant query exploded")
	}
	return nil, nil
}
