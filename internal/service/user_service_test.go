package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/events"
	apperrors "github.com/aryansharma1305/road-eye-anomaly-detect/pkg/util/errorutil"
)

func TestUserListRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "Plain User", false)

	_, err := f.Users.List(context.Background(), user, UserFilter{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.Users.List(context.Background(), nil, UserFilter{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

func TestUserListFiltersAndJoins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Root Admin", true)
	f.register(t, "Carla Diaz", false)
	f.register(t, "Dev Patel", false)

	all, err := f.Users.List(ctx, admin, UserFilter{Role: domain.RoleFilterAll})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dev Patel", all[0].FullName, "newest first")
	assert.Equal(t, "dev.patel@example.com", all[0].Email)

	admins, err := f.Users.List(ctx, admin, UserFilter{Role: domain.RoleFilterAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.UserID, admins[0].ID)

	users, err := f.Users.List(ctx, admin, UserFilter{Role: domain.RoleFilterUser, Search: "CARLA.diaz@"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Carla Diaz", users[0].FullName)

	_, err = f.Users.List(ctx, admin, UserFilter{Role: "owner"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUserListFallsBackWhenAccountMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Root Admin", true)

	orphan := domain.Profile{ID: "0c9f5e0a-2f7e-4a8b-9b61-1a2b3c4d5e6f", FullName: "Orphan", CreatedAt: f.clock.Now()}
	require.NoError(t, f.profiles.Create(ctx, &orphan))

	users, err := f.Users.List(ctx, admin, UserFilter{Search: "orphan"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Email)
	assert.Equal(t, orphan.CreatedAt, users[0].CreatedAt)
	assert.Equal(t, orphan.CreatedAt, users[0].LastSignInAt)
}

func TestSetAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Root Admin", true)
	target := f.register(t, "Target", false)

	promoted, err := f.Users.SetAdmin(ctx, admin, target.UserID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	again, err := f.Users.SetAdmin(ctx, admin, target.UserID, true)
	require.NoError(t, err)
	assert.True(t, again.IsAdmin)

	changes := f.recorded.ofType(events.EventUserRoleChanged)
	require.Len(t, changes, 1)
	assert.Equal(t, target.UserID, changes[0].SubjectID)

	profile, err := f.profiles.GetByID(ctx, target.UserID)
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin)
}

func TestSetAdminErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Root Admin", true)
	user := f.register(t, "User", false)

	_, err := f.Users.SetAdmin(ctx, user, admin.UserID, false)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.Users.SetAdmin(ctx, admin, "0c9f5e0a-2f7e-4a8b-9b61-000000000000", true)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.Users.SetAdmin(ctx, admin, "bogus", true)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestDeactivateDemotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Root Admin", true)
	other := f.register(t, "Other Admin", true)

	user, err := f.Users.Deactivate(ctx, admin, other.UserID)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	// Deactivated users can still sign in.
	_, err = f.Auth.Login(ctx, "other.admin@example.com", "password123")
	assert.NoError(t, err)
}
