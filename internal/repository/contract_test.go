package repository

import (
	"context"
	"errors"
	"testing"

	"restaurant-admin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientA = "6f1c2a2e-8a4b-4e53-9a51-2f0c6a4d7b10"
	clientB = "a3d5a1a6-2b9e-4c1b-8f0e-5b7c9d2e4f61"
)

// contractHarness builds a fresh repository per subtest and can rename a
// product behind the repository's back.
type contractHarness struct {
	newRepo       func(t *testing.T) RestaurantRepository
	renameProduct func(t *testing.T, repo RestaurantRepository, productID, name string)
}

func strPtr(s string) *string {
	return &s
}

func restaurantInput(name, clientID string) model.RestaurantInput {
	return model.RestaurantInput{
		Name:        name,
		Description: "Neighbourhood dining room",
		Address:     "1 High Street",
		Phone:       "+44 20 7946 0000",
		Email:       "hello@example.com",
		Website:     strPtr("https://example.com"),
		ClientID:    clientID,
		IsOpen:      true,
	}
}

func runContract(t *testing.T, h contractHarness) {
	ctx := context.Background()

	t.Run("List on empty repository returns empty slice", func(t *testing.T) {
		repo := h.newRepo(t)

		restaurants, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.NotNil(t, restaurants)
		assert.Empty(t, restaurants)
	})

	t.Run("Create assigns id and timestamps", func(t *testing.T) {
		repo := h.newRepo(t)

		created, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)

		_, err = uuid.Parse(created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Alpha", created.Name)
		assert.Equal(t, clientA, created.ClientID)
		assert.True(t, created.IsOpen)
		require.NotNil(t, created.Website)
		assert.Equal(t, "https://example.com", *created.Website)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	})

	t.Run("Create without website stores nil", func(t *testing.T) {
		repo := h.newRepo(t)

		in := restaurantInput("Alpha", clientA)
		in.Website = strPtr("")
		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		assert.Nil(t, created.Website)
	})

	t.Run("List keeps creation order and filters by client", func(t *testing.T) {
		repo := h.newRepo(t)

		for _, in := range []model.RestaurantInput{
			restaurantInput("Charlie", clientA),
			restaurantInput("Alpha", clientB),
			restaurantInput("Bravo", clientA),
		} {
			_, err := repo.Create(ctx, in)
			require.NoError(t, err)
		}

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Charlie", "Alpha", "Bravo"}, names(all))

		onlyA, err := repo.List(ctx, clientA)
		require.NoError(t, err)
		assert.Equal(t, []string{"Charlie", "Bravo"}, names(onlyA))

		none, err := repo.List(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Update applies only patched fields", func(t *testing.T) {
		repo := h.newRepo(t)
		created, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)

		updated, err := repo.Update(ctx, created.ID, model.RestaurantPatch{
			Name:    strPtr("Alpha Bistro"),
			Website: strPtr(""),
		})
		require.NoError(t, err)

		assert.Equal(t, "Alpha Bistro", updated.Name)
		assert.Nil(t, updated.Website)
		assert.Equal(t, created.Description, updated.Description)
		assert.Equal(t, created.Address, updated.Address)
		assert.Equal(t, created.Phone, updated.Phone)
		assert.Equal(t, created.Email, updated.Email)
		assert.Equal(t, created.IsOpen, updated.IsOpen)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		again, err := repo.Update(ctx, created.ID, model.RestaurantPatch{Phone: strPtr("+44 20 7946 1111")})
		require.NoError(t, err)
		assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
		assert.Equal(t, "Alpha Bistro", again.Name)
	})

	t.Run("ToggleStatus twice restores IsOpen", func(t *testing.T) {
		repo := h.newRepo(t)
		created, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)

		closed, err := repo.ToggleStatus(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, closed.IsOpen)
		assert.True(t, closed.UpdatedAt.After(created.UpdatedAt))

		reopened, err := repo.ToggleStatus(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, reopened.IsOpen)
		assert.True(t, reopened.UpdatedAt.After(closed.UpdatedAt))
	})

	t.Run("Unknown restaurant is not found", func(t *testing.T) {
		repo := h.newRepo(t)
		missing := uuid.NewString()

		_, err := repo.Update(ctx, missing, model.RestaurantPatch{Name: strPtr("Nope")})
		assert.True(t, errors.Is(err, model.ErrNotFound))

		_, err = repo.ToggleStatus(ctx, missing)
		assert.True(t, errors.Is(err, model.ErrNotFound))

		_, err = repo.FetchDependents(ctx, missing)
		assert.True(t, errors.Is(err, model.ErrNotFound))

		_, err = repo.AddTable(ctx, missing, model.TableInput{Number: 1, Capacity: 2})
		assert.True(t, errors.Is(err, model.ErrNotFound))

		_, err = repo.AddProduct(ctx, missing, model.ProductInput{Name: "Soup", Category: "starters"})
		assert.True(t, errors.Is(err, model.ErrNotFound))
	})

	t.Run("FetchDependents without dependents", func(t *testing.T) {
		repo := h.newRepo(t)
		created, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)

		deps, err := repo.FetchDependents(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, deps.Tables)
		assert.Empty(t, deps.Products)
		assert.Empty(t, deps.Menus)
		assert.Equal(t, 0, deps.Stats.TableCount)
		assert.Empty(t, deps.Stats.TablesByStatus)
	})

	t.Run("FetchDependents returns tables products menus and stats", func(t *testing.T) {
		repo := h.newRepo(t)
		rest, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)
		other, err := repo.Create(ctx, restaurantInput("Bravo", clientA))
		require.NoError(t, err)

		_, err = repo.AddTable(ctx, rest.ID, model.TableInput{Number: 2, Capacity: 4, Status: model.TableOccupied})
		require.NoError(t, err)
		t1, err := repo.AddTable(ctx, rest.ID, model.TableInput{Number: 1, Capacity: 2})
		require.NoError(t, err)
		assert.Equal(t, model.TableAvailable, t1.Status)
		_, err = repo.AddTable(ctx, other.ID, model.TableInput{Number: 1, Capacity: 8})
		require.NoError(t, err)

		soup, err := repo.AddProduct(ctx, rest.ID, model.ProductInput{
			Name: "Soup", Description: "Tomato", Price: 5.5, Category: "starters", IsAvailable: true,
		})
		require.NoError(t, err)
		pasta, err := repo.AddProduct(ctx, rest.ID, model.ProductInput{
			Name: "Pasta", Description: "Carbonara", Price: 12.25, Category: "mains", IsAvailable: false,
		})
		require.NoError(t, err)

		_, err = repo.AssembleMenu(ctx, rest.ID, model.MenuInput{
			Name: "Lunch", IsActive: true, ProductIDs: []string{soup.ID, pasta.ID},
		})
		require.NoError(t, err)
		_, err = repo.AssembleMenu(ctx, rest.ID, model.MenuInput{
			Name: "Dinner", IsActive: false, ProductIDs: []string{pasta.ID},
		})
		require.NoError(t, err)

		deps, err := repo.FetchDependents(ctx, rest.ID)
		require.NoError(t, err)

		require.Len(t, deps.Tables, 2)
		assert.Equal(t, 1, deps.Tables[0].Number)
		assert.Equal(t, 2, deps.Tables[1].Number)

		require.Len(t, deps.Products, 2)
		assert.Equal(t, "Pasta", deps.Products[0].Name)
		assert.Equal(t, 12.25, deps.Products[0].Price)

		require.Len(t, deps.Menus, 2)
		assert.Equal(t, "Dinner", deps.Menus[0].Name)
		lunch := deps.Menus[1]
		assert.Equal(t, "Lunch", lunch.Name)
		require.Len(t, lunch.Items, 2)
		assert.Equal(t, soup.ID, lunch.Items[0].ProductID)
		assert.Equal(t, 1, lunch.Items[0].Position)
		assert.Equal(t, pasta.ID, lunch.Items[1].ProductID)
		assert.Equal(t, 2, lunch.Items[1].Position)

		assert.Equal(t, model.RestaurantStats{
			TableCount: 2,
			TablesByStatus: map[model.TableStatus]int{
				model.TableAvailable: 1,
				model.TableOccupied:  1,
			},
			ProductCount:      2,
			AvailableProducts: 1,
			MenuCount:         2,
			ActiveMenus:       1,
		}, deps.Stats)
	})

	t.Run("AddTable rejects duplicate numbers", func(t *testing.T) {
		repo := h.newRepo(t)
		rest, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)

		_, err = repo.AddTable(ctx, rest.ID, model.TableInput{Number: 1, Capacity: 2})
		require.NoError(t, err)

		_, err = repo.AddTable(ctx, rest.ID, model.TableInput{Number: 1, Capacity: 6})
		assert.True(t, errors.Is(err, model.ErrValidationFailed))
	})

	t.Run("AssembleMenu rejects products of other restaurants", func(t *testing.T) {
		repo := h.newRepo(t)
		rest, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)
		other, err := repo.Create(ctx, restaurantInput("Bravo", clientA))
		require.NoError(t, err)
		foreign, err := repo.AddProduct(ctx, other.ID, model.ProductInput{Name: "Cake", Price: 4, Category: "desserts"})
		require.NoError(t, err)

		_, err = repo.AssembleMenu(ctx, rest.ID, model.MenuInput{Name: "Lunch", ProductIDs: []string{foreign.ID}})
		assert.True(t, errors.Is(err, model.ErrNotFound))

		deps, err := repo.FetchDependents(ctx, rest.ID)
		require.NoError(t, err)
		assert.Empty(t, deps.Menus)
	})

	t.Run("Menu items are snapshots", func(t *testing.T) {
		repo := h.newRepo(t)
		rest, err := repo.Create(ctx, restaurantInput("Alpha", clientA))
		require.NoError(t, err)
		soup, err := repo.AddProduct(ctx, rest.ID, model.ProductInput{Name: "Soup", Price: 5, Category: "starters", IsAvailable: true})
		require.NoError(t, err)
		_, err = repo.AssembleMenu(ctx, rest.ID, model.MenuInput{Name: "Lunch", IsActive: true, ProductIDs: []string{soup.ID}})
		require.NoError(t, err)

		h.renameProduct(t, repo, soup.ID, "Gazpacho")

		deps, err := repo.FetchDependents(ctx, rest.ID)
		require.NoError(t, err)
		assert.Equal(t, "Gazpacho", deps.Products[0].Name)
		require.Len(t, deps.Menus, 1)
		assert.Equal(t, "Soup", deps.Menus[0].Items[0].Name)
	})
}

func names(rs []model.Restaurant) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}
