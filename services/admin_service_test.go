package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/gnbf/badminton-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserService(t *testing.T) {
	ctx := context.Background()
	auth, store := newTestAuth()
	admin := NewAdminUserService(store.Users())
	root := &Claims{UserID: 1000, Role: models.RoleAdmin}

	var ids []int
	for i := 0; i < 5; i++ {
		u, err := auth.Register(ctx, RegisterInput{Email: fmt.Sprintf("user%d@gnbf.ge", i), Password: "password-123"}, nil)
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}

	page, err := admin.ListUsers(ctx, models.UserFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.TotalCount)
	require.Len(t, page.Users, 2)
	assert.Equal(t, ids[2], page.Users[0].ID)

	page, err = admin.ListUsers(ctx, models.UserFilter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, defaultUserPageSize, page.Limit)

	_, err = admin.ListUsers(ctx, models.UserFilter{Role: "owner"})
	assert.Contains(t, fieldErrors(t, err), "role")

	promoted, err := admin.ChangeRole(ctx, root, ids[1], models.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, promoted.Role)

	editors, err := admin.ListUsers(ctx, models.UserFilter{Role: models.RoleEditor})
	require.NoError(t, err)
	assert.EqualValues(t, 1, editors.TotalCount)

	self := &Claims{UserID: ids[0], Role: models.RoleAdmin}
	_, err = admin.ChangeRole(ctx, self, ids[0], models.RoleViewer)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
	assert.ErrorIs(t, admin.DeleteUser(ctx, self, ids[0]), ErrForbiddenOperation)

	_, err = admin.ChangeRole(ctx, root, 999, models.RoleViewer)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = admin.ChangeRole(ctx, root, ids[2], "owner")
	assert.Contains(t, fieldErrors(t, err), "role")

	require.NoError(t, admin.DeleteUser(ctx, root, ids[4]))
	assert.ErrorIs(t, admin.DeleteUser(ctx, root, ids[4]), ErrUserNotFound)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	dashboard := NewDashboardService(env.store.Users(), env.store.Players(), env.store.Clubs(), env.store.Tournaments())

	env.player(t, "Stat", "One", "M")
	env.player(t, "Stat", "Two", "F")
	live := env.tournament(t, "Live Cup")
	env.tournament(t, "Draft Cup")
	_, err := env.tournaments.Update(ctx, live.ID, UpdateTournamentInput{TournamentSettings: TournamentSettings{Status: strPtr("live")}})
	require.NoError(t, err)

	stats, err := dashboard.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.RegistryStats{
		PlayersTotal:          2,
		TournamentsTotal:      2,
		TournamentsInProgress: 1,
	}, *stats)
}
