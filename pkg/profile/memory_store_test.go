package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/profile"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get missing profile", func(t *testing.T) {
		store := profile.NewMemoryStore()
		p, err := store.GetProfile(ctx, "nobody")
		assert.Nil(t, p)
		assert.ErrorIs(t, err, authstate.ErrProfileNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		store := profile.NewMemoryStore()
		require.NoError(t, store.CreateProfile(ctx, authstate.Profile{
			ID:       "u1",
			FullName: "Ana García",
			Email:    "ana@example.com",
			Role:     "client",
		}))

		p, err := store.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ana García", p.FullName)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("duplicate and invalid ids", func(t *testing.T) {
		store := profile.NewMemoryStore(authstate.Profile{ID: "u1"})
		assert.ErrorIs(t, store.CreateProfile(ctx, authstate.Profile{ID: "u1"}), profile.ErrAlreadyExists)
		assert.ErrorIs(t, store.CreateProfile(ctx, authstate.Profile{}), profile.ErrInvalidID)
	})

	t.Run("returned profile is a copy", func(t *testing.T) {
		store := profile.NewMemoryStore(authstate.Profile{ID: "u1", FullName: "Ana"})
		p, err := store.GetProfile(ctx, "u1")
		require.NoError(t, err)
		p.FullName = "changed"

		again, err := store.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Ana", again.FullName)
	})

	t.Run("set role", func(t *testing.T) {
		store := profile.NewMemoryStore(authstate.Profile{ID: "u1", Role: "client"})
		require.NoError(t, store.SetRole(ctx, "u1", authstate.RoleAdministrator))

		p, err := store.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "administrator", p.Role)

		assert.ErrorIs(t, store.SetRole(ctx, "ghost", authstate.RoleClient), authstate.ErrProfileNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		store := profile.NewMemoryStore(
			authstate.Profile{ID: "old", CreatedAt: base},
			authstate.Profile{ID: "new", CreatedAt: base.Add(time.Hour)},
			authstate.Profile{ID: "mid", CreatedAt: base.Add(time.Minute)},
		)

		list, err := store.ListProfiles(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, len(list))
		for _, p := range list {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"new", "mid", "old"}, ids)
	})
}

func TestCountByRole(t *testing.T) {
	counts := profile.CountByRole([]authstate.Profile{
		{ID: "1", Role: "client"},
		{ID: "2", Role: "Administrador"},
		{ID: "3", Role: ""},
		{ID: "4", Role: "admin"},
		{ID: "5", Role: "superuser"},
	})
	assert.Equal(t, map[authstate.Role]int{
		authstate.RoleClient:        3,
		authstate.RoleAdministrator: 2,
	}, counts)

	assert.Equal(t, map[authstate.Role]int{
		authstate.RoleClient:        0,
		authstate.RoleAdministrator: 0,
	}, profile.CountByRole(nil))
}

func TestStoreSatisfiesProfileStore(t *testing.T) {
	var _ authstate.ProfileStore = profile.NewMemoryStore()
	var _ profile.Store = (*profile.Breaker)(nil)
	var _ profile.Store = (*profile.MongoStore)(nil)
}
