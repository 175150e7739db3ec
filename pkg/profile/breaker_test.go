package profile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/profile"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetProfile(ctx context.Context, id string) (*authstate.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*authstate.Profile)
	return p, args.Error(1)
}

func (m *mockStore) CreateProfile(ctx context.Context, p authstate.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) SetRole(ctx context.Context, id string, role authstate.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockStore) ListProfiles(ctx context.Context) ([]authstate.Profile, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]authstate.Profile)
	return list, args.Error(1)
}

func newBreaker(next profile.Store) *profile.Breaker {
	return profile.NewBreaker(next, profile.BreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Timeout:          time.Hour,
		FailureThreshold: 2,
	}, nil)
}

func TestBreaker(t *testing.T) {
	ctx := context.Background()
	backendDown := errors.New("connection refused")

	t.Run("passes results through", func(t *testing.T) {
		next := new(mockStore)
		next.On("GetProfile", ctx, "u1").Return(&authstate.Profile{ID: "u1", Role: "admin"}, nil).Once()
		next.On("ListProfiles", ctx).Return([]authstate.Profile{{ID: "u1"}}, nil).Once()
		next.On("SetRole", ctx, "u1", authstate.RoleClient).Return(nil).Once()

		b := newBreaker(next)

		p, err := b.GetProfile(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "admin", p.Role)

		list, err := b.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, b.SetRole(ctx, "u1", authstate.RoleClient))
		next.AssertExpectations(t)
	})

	t.Run("not found does not trip", func(t *testing.T) {
		next := new(mockStore)
		next.On("GetProfile", ctx, "ghost").Return(nil, authstate.ErrProfileNotFound).Times(5)

		b := newBreaker(next)
		for range 5 {
			_, err := b.GetProfile(ctx, "ghost")
			assert.ErrorIs(t, err, authstate.ErrProfileNotFound)
		}
		assert.Equal(t, gobreaker.StateClosed, b.State())
		next.AssertExpectations(t)
	})

	t.Run("backend failures trip and fail fast", func(t *testing.T) {
		next := new(mockStore)
		next.On("GetProfile", ctx, "u1").Return(nil, backendDown).Twice()

		b := newBreaker(next)
		for range 2 {
			_, err := b.GetProfile(ctx, "u1")
			assert.ErrorIs(t, err, backendDown)
		}
		assert.Equal(t, gobreaker.StateOpen, b.State())

		_, err := b.GetProfile(ctx, "u1")
		assert.ErrorIs(t, err, profile.ErrCircuitOpen)
		assert.ErrorIs(t, b.CreateProfile(ctx, authstate.Profile{ID: "u2"}), profile.ErrCircuitOpen)

		next.AssertExpectations(t)
		next.AssertNumberOfCalls(t, "GetProfile", 2)
	})

	t.Run("open circuit degrades the session to client", func(t *testing.T) {
		next := new(mockStore)
		next.On("GetProfile", mock.Anything, "u1").Return(nil, backendDown)

		b := newBreaker(next)
		manager := authstate.New(authstate.WithProfileStore(b))

		for range 3 {
			manager.SetIdentity(ctx, &authstate.Identity{ID: "u1", Email: "u1@example.com"})
			assert.Equal(t, authstate.RoleClient, manager.Role())
			assert.Nil(t, manager.Profile())
		}
		assert.Equal(t, gobreaker.StateOpen, b.State())
		next.AssertNumberOfCalls(t, "GetProfile", 2)
	})
}
