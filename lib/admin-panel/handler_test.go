package adminpanelhandler

import (
	memorystore "careers-backend/lib/storage/memory-store"
	authutils "careers-backend/lib/utils/auth-utils"
	"careers-backend/models"
	adminpanelapimodels "careers-backend/models/api/admin-panel"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminUsers(t *testing.T) {
	ctx := context.Background()
	store := memorystore.NewInstance()
	h := impl{store: store}

	userID, hMsg, err := h.CreateUser(ctx, adminpanelapimodels.User{
		Email:     "hr@example.com",
		FirstName: "Priya",
		LastName:  "Shah",
		Password:  "password-1",
		Role:      models.UserRoleHRManager,
	})
	require.NoError(t, err)
	require.Empty(t, hMsg)

	t.Run(`get`, func(t *testing.T) {
		view, err := h.GetUser(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "hr@example.com", view.Email)
		require.True(t, view.IsActive)
		require.Equal(t, "HR manager", view.RoleName)
		require.Empty(t, view.Password)
		require.Nil(t, view.LastLogin)

		view, err = h.GetUser(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, view)
	})

	t.Run(`duplicate email`, func(t *testing.T) {
		_, hMsg, err := h.CreateUser(ctx, adminpanelapimodels.User{
			Email:     "HR@example.com",
			FirstName: "Other",
			Password:  "password-2",
			Role:      models.UserRoleHRManager,
		})
		require.NoError(t, err)
		require.Equal(t, "a user with this email already exists", hMsg)
	})

	t.Run(`update password and role`, func(t *testing.T) {
		password := "password-3"
		role := models.UserRoleSuperAdmin
		hMsg, err := h.UpdateUser(ctx, userID, adminpanelapimodels.UserUpdate{Password: &password, Role: &role})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		rec, err := store.GetAdminUser(ctx, userID)
		require.NoError(t, err)
		require.True(t, rec.IsSuperAdmin())
		require.True(t, authutils.CheckPassword(rec.PasswordHash, password))
	})

	t.Run(`update unknown user`, func(t *testing.T) {
		name := "x"
		hMsg, err := h.UpdateUser(ctx, "missing", adminpanelapimodels.UserUpdate{FirstName: &name})
		require.NoError(t, err)
		require.Equal(t, "user not found", hMsg)
	})

	t.Run(`list and delete`, func(t *testing.T) {
		list, err := h.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		hMsg, err := h.DeleteUser(ctx, userID)
		require.NoError(t, err)
		require.Empty(t, hMsg)
		hMsg, err = h.DeleteUser(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "user not found", hMsg)
	})
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run(`skipped without credentials`, func(t *testing.T) {
		store := memorystore.NewInstance()
		require.NoError(t, impl{store: store}.Bootstrap(ctx, "", ""))
		list, err := store.ListAdminUsers(ctx)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run(`creates super admin once`, func(t *testing.T) {
		store := memorystore.NewInstance()
		h := impl{store: store}
		require.NoError(t, h.Bootstrap(ctx, "root@example.com", "root-password"))
		require.NoError(t, h.Bootstrap(ctx, "other@example.com", "root-password"))
		list, err := store.ListAdminUsers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "root@example.com", list[0].Email)
		require.True(t, list[0].IsSuperAdmin())
	})
}
