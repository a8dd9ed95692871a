package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/adverto/adreport/internal/config"
)

func TestPrincipalAccess(t *testing.T) {
	admin := &Principal{UserID: "u1", Role: RoleAdmin}
	client := &Principal{UserID: "u2", Role: RoleClient, ClientID: "c1"}
	var none *Principal

	assert.True(t, admin.IsAdmin())
	assert.False(t, client.IsAdmin())
	assert.False(t, none.IsAdmin())

	assert.True(t, admin.CanAccessClient("anything"))
	assert.True(t, client.CanAccessClient("c1"))
	assert.False(t, client.CanAccessClient("c2"))
	assert.False(t, none.CanAccessClient("c1"))

	// A client session without a bound client id sees nothing.
	unbound := &Principal{UserID: "u3", Role: RoleClient}
	assert.False(t, unbound.CanAccessClient(""))
}

func TestAuthMiddlewareDisabledPassesThrough(t *testing.T) {
	mw := NewAuthMiddleware(config.AuthConfig{Enabled: false}, nil, zap.NewNop())
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, PrincipalFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	mw := NewAuthMiddleware(config.AuthConfig{
		Enabled:   true,
		SkipPaths: []string{"/health"},
	}, nil, zap.NewNop())
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))

	// Skip paths bypass auth entirely.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/records", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", bearerToken(r))

	r = httptest.NewRequest(http.MethodGet, "/records?session=qs-token", nil)
	assert.Equal(t, "qs-token", bearerToken(r))

	r = httptest.NewRequest(http.MethodGet, "/records", nil)
	assert.Equal(t, "", bearerToken(r))
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "/records", routePattern("/records"))
	assert.Equal(t, "/clients/:id", routePattern("/clients/abc"))
	assert.Equal(t, "/reports/:id/export", routePattern("/reports/abc/export"))
	assert.Equal(t, "/schedules/:id", routePattern("/schedules/xyz"))
	assert.Equal(t, "/dashboard/summary", routePattern("/dashboard/summary"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "3xx", statusClass(302))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}

func TestRecoveryMiddleware(t *testing.T) {
	mw := NewRecoveryMiddleware(zap.NewNop())
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
