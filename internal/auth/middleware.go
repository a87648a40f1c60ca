package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
	pkghttp "github.com/taogeht/reading-practice-app-sub002/pkg/http"
)

type contextKey string

const claimsContextKey contextKey = "session_claims"

// ClaimsFromContext returns the session claims stored by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*models.TokenClaims)
	return claims, ok
}

// Middleware validates the bearer session token and stores its claims in the
// request context.
func Middleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				pkghttp.WriteUnauthorized(w, "Missing or invalid authorization header")
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff restricts a route to staff sessions. Roster browsing and
// student provisioning are staff actions; student tokens only unlock the
// reading endpoints served elsewhere.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Subject != models.SubjectStaff {
			pkghttp.WriteForbidden(w, "Staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole restricts a route to staff sessions holding the given role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Subject != models.SubjectStaff || claims.Role != role {
				pkghttp.WriteForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
