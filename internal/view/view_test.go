package view

import (
	"testing"
	"time"

	"restaurant-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restaurants() []model.Restaurant {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []model.Restaurant{
		{ID: "1", Name: "North", Address: "1 North Road", IsOpen: true, CreatedAt: ts, UpdatedAt: ts},
		{ID: "2", Name: "South", Address: "2 South Road", IsOpen: false, CreatedAt: ts, UpdatedAt: ts},
	}
}

func strPtr(s string) *string {
	return &s
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"dashboard", "admin-panel", "listing"} {
		mode, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), mode)
	}

	_, err := ParseMode("kanban")
	assert.ErrorIs(t, err, model.ErrInvalidMode)
}

func TestProject_InvalidMode(t *testing.T) {
	_, err := Project(Mode("kanban"), Input{}, Options{})
	assert.ErrorIs(t, err, model.ErrInvalidMode)
}

func TestProject_EmptyStateDiffersPerMode(t *testing.T) {
	in := Input{}

	dash, err := Project(ModeDashboard, in, Options{})
	require.NoError(t, err)
	admin, err := Project(ModeAdminPanel, in, Options{})
	require.NoError(t, err)
	list, err := Project(ModeListing, in, Options{})
	require.NoError(t, err)

	require.NotNil(t, dash.Empty)
	require.NotNil(t, admin.Empty)
	require.NotNil(t, list.Empty)

	assert.Equal(t, KeyDashboardEmpty, dash.Empty.Key)
	assert.Equal(t, KeyActionCreate, dash.Empty.ActionKey)
	assert.Equal(t, KeyAdminEmpty, admin.Empty.Key)
	assert.Empty(t, admin.Empty.ActionKey)
	assert.Equal(t, KeyListingEmpty, list.Empty.Key)
	assert.NotEqual(t, dash.Empty.Key, admin.Empty.Key)

	assert.Empty(t, dash.Cards)
	assert.Equal(t, KeyAdminPlaceholder, admin.PlaceholderKey)
}

func TestProject_Dashboard(t *testing.T) {
	d, err := Project(ModeDashboard, Input{Entities: restaurants()}, Options{})
	require.NoError(t, err)

	assert.Equal(t, ModeDashboard, d.Mode)
	assert.Equal(t, LayoutSummaryCards, d.Layout)
	assert.Nil(t, d.Empty)
	require.Len(t, d.Cards, 2)
	assert.Equal(t, KeyStatusOpen, d.Cards[0].StatusKey)
	assert.Equal(t, KeyStatusClosed, d.Cards[1].StatusKey)
	assert.True(t, d.Actions.Create)
	assert.True(t, d.Actions.Header)
	assert.False(t, d.Actions.Back)
	assert.Nil(t, d.Detail)
}

func TestProject_AdminPanel(t *testing.T) {
	tests := []struct {
		name          string
		state         model.AdminPanelState
		draft         *model.Restaurant
		expectDetail  bool
		expectEditing bool
	}{
		{
			name: "No selection shows placeholder",
		},
		{
			name:         "Selected",
			state:        model.AdminPanelState{SelectedEntityID: strPtr("2")},
			expectDetail: true,
		},
		{
			name:          "Editing",
			state:         model.AdminPanelState{SelectedEntityID: strPtr("2"), IsEditing: true},
			draft:         &model.Restaurant{ID: "2", Name: "South Draft"},
			expectDetail:  true,
			expectEditing: true,
		},
		{
			name:  "Stale selection behaves as none",
			state: model.AdminPanelState{SelectedEntityID: strPtr("gone")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Project(ModeAdminPanel, Input{Entities: restaurants(), State: tt.state, Draft: tt.draft}, Options{})
			require.NoError(t, err)

			assert.Equal(t, LayoutTwoPane, d.Layout)
			assert.Len(t, d.Cards, 2)

			if !tt.expectDetail {
				assert.Nil(t, d.Detail)
				assert.Equal(t, KeyAdminPlaceholder, d.PlaceholderKey)
				assert.False(t, d.Actions.Edit)
				return
			}

			require.NotNil(t, d.Detail)
			assert.Empty(t, d.PlaceholderKey)
			assert.Equal(t, "2", d.Detail.Restaurant.ID)
			assert.True(t, d.Cards[1].Selected)
			assert.False(t, d.Cards[0].Selected)
			assert.Equal(t, tt.expectEditing, d.Detail.Editing)
			assert.Equal(t, !tt.expectEditing, d.Actions.Edit)
			assert.Equal(t, !tt.expectEditing, d.Actions.ToggleStatus)
			assert.Equal(t, tt.expectEditing, d.Actions.Save)
			assert.Equal(t, tt.expectEditing, d.Actions.Cancel)
			if tt.expectEditing {
				require.NotNil(t, d.Detail.Draft)
				assert.Equal(t, "South Draft", d.Detail.Draft.Name)
				assert.Equal(t, "South", d.Detail.Restaurant.Name)
			}
		})
	}
}

func TestProject_ListingBackAffordance(t *testing.T) {
	without, err := Project(ModeListing, Input{Entities: restaurants()}, Options{})
	require.NoError(t, err)
	with, err := Project(ModeListing, Input{Entities: restaurants()}, Options{ShowBack: true})
	require.NoError(t, err)

	assert.Equal(t, LayoutGrid, without.Layout)
	assert.False(t, without.Actions.Back)
	assert.True(t, with.Actions.Back)
	assert.False(t, with.Actions.Create)
	assert.Len(t, with.Cards, 2)
}

func TestProject_LoadingAndError(t *testing.T) {
	state := model.AdminPanelState{
		SelectedEntityID: strPtr("1"),
		IsLoading:        true,
		LastError:        model.NewOperationError(nil, "Backend unavailable"),
	}

	for _, mode := range []Mode{ModeDashboard, ModeAdminPanel, ModeListing} {
		t.Run(string(mode), func(t *testing.T) {
			d, err := Project(mode, Input{Entities: restaurants(), State: state}, Options{ShowBack: true})
			require.NoError(t, err)

			assert.True(t, d.Loading)
			assert.False(t, d.Actions.Create)
			assert.False(t, d.Actions.Edit)
			assert.False(t, d.Actions.ToggleStatus)
			require.NotNil(t, d.Error)
			assert.Equal(t, model.ErrCodeOperationFailed, d.Error.Code)
			assert.Equal(t, "error.operation_failed", d.Error.Key)
			assert.Equal(t, "Backend unavailable", d.Error.Message)
		})
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	entities := restaurants()
	draft := &model.Restaurant{ID: "1", Name: "Draft", Website: strPtr("https://draft.example")}
	state := model.AdminPanelState{SelectedEntityID: strPtr("1"), IsEditing: true}
	in := Input{Entities: entities, State: state, Draft: draft}

	original := restaurants()
	originalState := state.Clone()

	for _, mode := range []Mode{ModeDashboard, ModeAdminPanel, ModeListing} {
		d, err := Project(mode, in, Options{})
		require.NoError(t, err)
		if d.Detail != nil && d.Detail.Draft != nil {
			d.Detail.Draft.Name = "mutated"
			*d.Detail.Draft.Website = "https://mutated.example"
		}
	}

	assert.Equal(t, original, entities)
	assert.Equal(t, originalState, state)
	assert.Equal(t, "Draft", draft.Name)
	assert.Equal(t, "https://draft.example", *draft.Website)
}
