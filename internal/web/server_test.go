package web_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/sprayshop/internal/web"
	"github.com/dmitrymomot/sprayshop/pkg/admin"
	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/cart"
	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/identity"
	"github.com/dmitrymomot/sprayshop/pkg/profile"
)

type zeroCounters struct{}

func (zeroCounters) CountOrders(context.Context) (int64, error)          { return 3, nil }
func (zeroCounters) CountPendingMessages(context.Context) (int64, error) { return 1, nil }
func (zeroCounters) CountMessages(context.Context) (int64, error)        { return 2, nil }

type app struct {
	manager  *authstate.Manager
	provider *identity.Provider
	handler  http.Handler
}

func newApp(t *testing.T, initialize bool) *app {
	t.Helper()

	profiles := profile.NewMemoryStore()
	provider := identity.NewProvider(identity.NewMemoryAccountStore(),
		identity.WithBcryptCost(bcrypt.MinCost),
		identity.WithProfileWriter(profiles),
		identity.WithAdminSignup(true),
	)
	manager := authstate.New(
		authstate.WithIdentityProvider(provider),
		authstate.WithProfileStore(profiles),
	)
	if initialize {
		manager.Initialize(context.Background())
	}
	t.Cleanup(func() { _ = manager.Close() })

	products := catalog.NewMemoryStore(
		catalog.Product{ID: "p1", Name: "Amber", Brand: "Zara", Price: 20, Gender: "Mujer", FragranceType: "sprays"},
		catalog.Product{ID: "p2", Name: "Cedar", Brand: "Hugo", Price: 35, Gender: "Hombre", FragranceType: "sprays"},
		catalog.Product{ID: "p3", Name: "Oud", Brand: "Dior", Price: 90, FragranceType: "perfumes"},
	)
	carts := cart.NewService(cart.NewMemoryStore())
	adminSvc := admin.NewService(manager, profiles, products, zeroCounters{})

	srv := web.New(manager, provider, products, carts, adminSvc)
	return &app{manager: manager, provider: provider, handler: srv.Router()}
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *web.ErrorDetail `json:"error"`
}

func (a *app) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (a *app) register(t *testing.T, email, role string) {
	t.Helper()
	code, _ := a.do(t, http.MethodPost, "/auth/register",
		`{"email":"`+email+`","password":"secret123","full_name":"Ana Ruiz","role":"`+role+`"}`)
	require.Equal(t, http.StatusCreated, code)
}

func TestHealth(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		a := newApp(t, false)
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("not ready before initialization", func(t *testing.T) {
		a := newApp(t, false)
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("ready after initialization", func(t *testing.T) {
		a := newApp(t, true)
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})
}

func TestAuthEndpoints(t *testing.T) {
	a := newApp(t, true)

	code, env := a.do(t, http.MethodGet, "/auth/state", "")
	require.Equal(t, http.StatusOK, code)
	var view web.SessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.False(t, view.Authenticated)
	assert.True(t, view.Initialized)
	assert.Empty(t, view.DisplayName)

	code, env = a.do(t, http.MethodPost, "/auth/register",
		`{"email":"Ana@Example.com","password":"secret123","full_name":"Ana Ruiz","role":"cliente"}`)
	require.Equal(t, http.StatusCreated, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Authenticated)
	assert.Equal(t, authstate.RoleClient, view.Role)
	assert.Equal(t, "Ana Ruiz", view.DisplayName)
	assert.False(t, view.Administrator)

	t.Run("duplicate email", func(t *testing.T) {
		code, env := a.do(t, http.MethodPost, "/auth/register",
			`{"email":"ana@example.com","password":"secret123"}`)
		assert.Equal(t, http.StatusConflict, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "email_in_use", env.Error.Code)
		assert.Equal(t, identity.Message(identity.ErrEmailInUse), env.Error.Message)
	})

	code, _ = a.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, a.manager.IsAuthenticated())

	t.Run("wrong password", func(t *testing.T) {
		code, env := a.do(t, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"nope-nope"}`)
		assert.Equal(t, http.StatusUnauthorized, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "wrong_password", env.Error.Code)
		assert.Equal(t, "Incorrect password", env.Error.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		code, env := a.do(t, http.MethodPost, "/auth/login", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "invalid_request", env.Error.Code)
	})

	code, env = a.do(t, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Authenticated)

	t.Run("google sign-in disabled", func(t *testing.T) {
		code, env := a.do(t, http.MethodGet, "/auth/google", "")
		assert.Equal(t, http.StatusForbidden, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "operation_not_allowed", env.Error.Code)
	})

	t.Run("google consent cancelled", func(t *testing.T) {
		code, env := a.do(t, http.MethodGet, "/auth/google/callback?error=access_denied", "")
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "oauth_cancelled", env.Error.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	a := newApp(t, true)

	code, env := a.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, code)
	var listing catalog.Listing
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	assert.Equal(t, 2, listing.Total)
	assert.Equal(t, []string{"Hugo", "Zara"}, listing.Brands)

	code, env = a.do(t, http.MethodGet, "/products?gender=mujer,all&brand=zara", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "p1", listing.Products[0].ID)
	assert.Len(t, listing.Brands, 2)

	code, env = a.do(t, http.MethodGet, "/products/p3", "")
	require.Equal(t, http.StatusOK, code)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Oud", p.Name)

	code, env = a.do(t, http.MethodGet, "/products/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "product_not_found", env.Error.Code)
}

func TestCartEndpoints(t *testing.T) {
	a := newApp(t, true)

	count := func() int {
		code, env := a.do(t, http.MethodGet, "/cart/count", "")
		require.Equal(t, http.StatusOK, code)
		var body map[string]int
		require.NoError(t, json.Unmarshal(env.Data, &body))
		return body["count"]
	}

	assert.Equal(t, 0, count())

	code, env := a.do(t, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthenticated", env.Error.Code)

	a.register(t, "ana@example.com", "client")

	code, env = a.do(t, http.MethodPost, "/cart/items", `{"product_id":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, code)
	var view web.CartView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.Count)
	assert.InDelta(t, 40.0, view.Total, 0.001)

	code, _ = a.do(t, http.MethodPost, "/cart/items", `{"product_id":"p2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, count())

	code, env = a.do(t, http.MethodPost, "/cart/items", `{"product_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "product_not_found", env.Error.Code)

	code, env = a.do(t, http.MethodPatch, "/cart/items/p1", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 6, view.Count)

	code, env = a.do(t, http.MethodPatch, "/cart/items/p3", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "item_not_found", env.Error.Code)

	code, env = a.do(t, http.MethodDelete, "/cart/items/p2", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p1", view.Items[0].ProductID)

	code, _ = a.do(t, http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, 0, count())

	code, env = a.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Empty(t, view.Items)
}

func TestAdminEndpoints(t *testing.T) {
	a := newApp(t, true)

	code, env := a.do(t, http.MethodGet, "/admin/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthenticated", env.Error.Code)

	a.register(t, "client@example.com", "client")
	code, env = a.do(t, http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "forbidden", env.Error.Code)

	a.register(t, "root@example.com", "administrador")
	require.True(t, a.manager.IsAdministrator())

	code, env = a.do(t, http.MethodGet, "/admin/dashboard", "")
	require.Equal(t, http.StatusOK, code)
	var d admin.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, int64(3), d.Products)
	assert.Equal(t, int64(3), d.Orders)
	assert.Equal(t, int64(1), d.PendingMessages)
	assert.Equal(t, 2, d.Users)
	assert.Equal(t, 1, d.Administrators)

	code, env = a.do(t, http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusOK, code)
	var users []admin.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)

	var clientID string
	for _, u := range users {
		if u.Role == authstate.RoleClient {
			clientID = u.ID
		}
	}
	require.NotEmpty(t, clientID)

	code, env = a.do(t, http.MethodPatch, "/admin/users/"+clientID+"/role", `{"role":"superuser"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_role", env.Error.Code)

	code, _ = a.do(t, http.MethodPatch, "/admin/users/"+clientID+"/role", `{"role":"admin"}`)
	assert.Equal(t, http.StatusNoContent, code)

	code, env = a.do(t, http.MethodPatch, "/admin/users/ghost/role", `{"role":"client"}`)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "user_not_found", env.Error.Code)

	code, env = a.do(t, http.MethodPost, "/admin/products", `{"name":"Musk","price":15,"fragrance_type":"sprays"}`)
	require.Equal(t, http.StatusCreated, code)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.NotEmpty(t, p.ID)

	code, env = a.do(t, http.MethodPost, "/admin/products", `{"price":15}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_product", env.Error.Code)
}

func TestStateStream(t *testing.T) {
	a := newApp(t, true)
	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/auth/state/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	waitFor := func(substr string) {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", substr)
				if strings.Contains(line, substr) {
					return
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", substr)
			}
		}
	}

	waitFor(`"authenticated":false`)

	_, err = a.provider.Register(ctx, identity.RegisterInput{
		Email:    "ana@example.com",
		Password: "secret123",
		FullName: "Ana Ruiz",
	})
	require.NoError(t, err)
	waitFor(`"display_name":"Ana Ruiz"`)

	a.provider.SignOut(ctx)
	waitFor(`"authenticated":false`)
}
