package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"restaurant-admin/internal/model"

	"github.com/google/uuid"
)

var _ RestaurantRepository = (*MemoryRepository)(nil)

// MemoryRepository keeps restaurants and their dependents in process memory.
// It backs DATA_BACKEND=memory and tests that need a real backend.
type MemoryRepository struct {
	mu          sync.RWMutex
	order       []string
	restaurants map[string]model.Restaurant
	tables      map[string][]model.Table
	products    map[string][]model.Product
	menus       map[string][]model.Menu
	now         func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		restaurants: map[string]model.Restaurant{},
		tables:      map[string][]model.Table{},
		products:    map[string][]model.Product{},
		menus:       map[string][]model.Menu{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) List(_ context.Context, clientID string) ([]model.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Restaurant, 0, len(r.order))
	for _, id := range r.order {
		rest := r.restaurants[id]
		if clientID != "" && rest.ClientID != clientID {
			continue
		}
		out = append(out, rest.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, input model.RestaurantInput) (*model.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	rest := model.Restaurant{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.Phone,
		Email:       input.Email,
		ClientID:    input.ClientID,
		IsOpen:      input.IsOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Website != nil && *input.Website != "" {
		website := *input.Website
		rest.Website = &website
	}

	r.restaurants[rest.ID] = rest
	r.order = append(r.order, rest.ID)

	out := rest.Clone()
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error) {
	return r.modify(id, patch.Apply)
}

func (r *MemoryRepository) ToggleStatus(_ context.Context, id string) (*model.Restaurant, error) {
	return r.modify(id, func(rest model.Restaurant) model.Restaurant {
		rest.IsOpen = !rest.IsOpen
		return rest
	})
}

func (r *MemoryRepository) modify(id string, fn func(model.Restaurant) model.Restaurant) (*model.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.restaurants[id]
	if !ok {
		return nil, model.NotFound("restaurant", id)
	}

	next := fn(prev.Clone())
	next.ID, next.ClientID, next.CreatedAt = prev.ID, prev.ClientID, prev.CreatedAt
	next.UpdatedAt = r.now()
	if !next.UpdatedAt.After(prev.UpdatedAt) {
		next.UpdatedAt = prev.UpdatedAt.Add(time.Microsecond)
	}

	r.restaurants[id] = next
	out := next.Clone()
	return &out, nil
}

func (r *MemoryRepository) FetchDependents(_ context.Context, restaurantID string) (*model.Dependents, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.restaurants[restaurantID]; !ok {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	tables := append([]model.Table{}, r.tables[restaurantID]...)
	products := append([]model.Product{}, r.products[restaurantID]...)
	menus := make([]model.Menu, 0, len(r.menus[restaurantID]))
	for _, m := range r.menus[restaurantID] {
		m.Items = append([]model.MenuItem{}, m.Items...)
		menus = append(menus, m)
	}

	// Same ordering as the PostgreSQL repository.
	sort.SliceStable(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	sort.SliceStable(menus, func(i, j int) bool { return menus[i].Name < menus[j].Name })

	return &model.Dependents{
		Tables:   tables,
		Products: products,
		Menus:    menus,
		Stats:    model.ComputeStats(tables, products, menus),
	}, nil
}

func (r *MemoryRepository) AddTable(_ context.Context, restaurantID string, input model.TableInput) (*model.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.restaurants[restaurantID]; !ok {
		return nil, model.NotFound("restaurant", restaurantID)
	}
	for _, t := range r.tables[restaurantID] {
		if t.Number == input.Number {
			return nil, model.NewValidationError([]model.FieldError{
				{Field: "number", Key: "validation.number.duplicate"},
			})
		}
	}

	t := model.Table{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Number:       input.Number,
		Capacity:     input.Capacity,
		Status:       tableStatusOrDefault(input.Status),
	}
	r.tables[restaurantID] = append(r.tables[restaurantID], t)
	return &t, nil
}

func (r *MemoryRepository) AddProduct(_ context.Context, restaurantID string, input model.ProductInput) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.restaurants[restaurantID]; !ok {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	p := model.Product{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		IsAvailable:  input.IsAvailable,
	}
	r.products[restaurantID] = append(r.products[restaurantID], p)
	return &p, nil
}

func (r *MemoryRepository) AssembleMenu(_ context.Context, restaurantID string, input model.MenuInput) (*model.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.restaurants[restaurantID]; !ok {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	byID := make(map[string]model.Product, len(r.products[restaurantID]))
	for _, p := range r.products[restaurantID] {
		byID[p.ID] = p
	}
	ordered := make([]model.Product, 0, len(input.ProductIDs))
	for _, id := range input.ProductIDs {
		p, ok := byID[id]
		if !ok {
			return nil, model.NotFound("product", id)
		}
		ordered = append(ordered, p)
	}

	menu := model.Menu{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Name:         input.Name,
		IsActive:     input.IsActive,
		Items:        model.SnapshotItems(ordered),
	}
	r.menus[restaurantID] = append(r.menus[restaurantID], menu)

	out := menu
	out.Items = append([]model.MenuItem{}, menu.Items...)
	return &out, nil
}
