package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/permission"
	"github.com/frahmantamala/docportal-access/pkg/logger"
)

// Middleware authenticates requests and installs the caller's identity
// in the request context.
type Middleware struct {
	service ServiceAPI
	logger  *slog.Logger
}

func NewMiddleware(service ServiceAPI, log *slog.Logger) *Middleware {
	return &Middleware{service: service, logger: log}
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := m.service.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			m.logger.Warn("rejected request with invalid token", "path", r.URL.Path, "error", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := internal.ContextWithUserID(r.Context(), claims.UserID)
		ctx = logger.With(ctx, "user_id", claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PermissionResolver is the slice of the resolution engine the
// authorization middleware consults.
type PermissionResolver interface {
	ResolveForUser(userID string) (permission.EffectivePermissionSet, error)
}

type Authorizer struct {
	resolver PermissionResolver
	logger   *slog.Logger
}

func NewAuthorizer(resolver PermissionResolver, log *slog.Logger) *Authorizer {
	return &Authorizer{resolver: resolver, logger: log}
}

// RequirePermission gates a route on the caller's effective permission
// set, resolved fresh per request.
func (a *Authorizer) RequirePermission(permissionKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := internal.UserIDFromContext(r.Context())
			if userID == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			set, err := a.resolver.ResolveForUser(userID)
			if err != nil {
				a.logger.Error("authorization check failed", "user_id", userID, "permission", permissionKey, "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !set.Has(permissionKey) {
				a.logger.Warn("access denied: insufficient permissions",
					"user_id", userID,
					"required_permission", permissionKey)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
