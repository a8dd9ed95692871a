package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adverto/adreport/internal/config"
)

// contextKey is a custom type for context keys.
type contextKey string

const (
	principalContextKey contextKey = "principal"
	authHeaderName                 = "Authorization"
)

// Role is what a session is allowed to do. Admins manage everything;
// clients only see their own data.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Principal is the resolved identity of a request. Sessions are issued
// by the external identity provider; this middleware only resolves
// bearer tokens against the Redis session store.
type Principal struct {
	UserID   string `json:"user_id"`
	Role     Role   `json:"role"`
	ClientID string `json:"client_id,omitempty"` // set for client-role sessions
}

// IsAdmin reports whether the principal has the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanAccessClient reports whether the principal may read data for the
// given client id.
func (p *Principal) CanAccessClient(clientID string) bool {
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	return p.ClientID != "" && p.ClientID == clientID
}

// PrincipalFromContext returns the request principal, or nil when auth
// is disabled.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

// AuthMiddleware resolves bearer session tokens to principals.
type AuthMiddleware struct {
	cfg    config.AuthConfig
	redis  *redis.Client
	logger *zap.Logger
}

func NewAuthMiddleware(cfg config.AuthConfig, rdb *redis.Client, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg, redis: rdb, logger: logger}
}

func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		if a.shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			a.unauthorized(w, "missing session token")
			return
		}

		principal, err := a.resolve(r.Context(), token)
		if err != nil {
			a.logger.Warn("session lookup failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			a.unauthorized(w, "invalid session")
			return
		}
		if principal == nil {
			a.unauthorized(w, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve looks the token up in Redis. A hit refreshes the TTL so an
// active session stays alive.
func (a *AuthMiddleware) resolve(ctx context.Context, token string) (*Principal, error) {
	raw, err := a.redis.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	a.redis.Expire(ctx, sessionKey(token), a.cfg.SessionTTL)
	return &p, nil
}

func (a *AuthMiddleware) shouldSkip(path string) bool {
	for _, skip := range a.cfg.SkipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

func (a *AuthMiddleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(authHeaderName)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("session")
}

func sessionKey(token string) string {
	return "session:" + token
}
