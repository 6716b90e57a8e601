package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/mentor-match/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// identity value — no other package can collide with or shadow it.
type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller identity placed in the request context
// after token verification. It carries the role so the API layer can gate
// mentor-only and mentee-only operations without a database lookup.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   model.Role
}

// RequireAuth enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header, verifies it, and
// stores the caller's Identity in the request context. Missing, malformed,
// expired, and forged tokens all produce the same 401 — the caller learns
// nothing about which check failed.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := extractIdentity(r, tokens)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized,
					`{"error":"unauthenticated","message":"valid authentication required"}`)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group to a single role. Mount it after
// RequireAuth; an authenticated caller with the wrong role gets 403 (they
// are known, just not allowed), unlike the uniform 401 for bad tokens.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized,
					`{"error":"unauthenticated","message":"valid authentication required"}`)
				return
			}
			if ident.Role != role {
				writeAuthError(w, http.StatusForbidden,
					`{"error":"forbidden","message":"operation not permitted for this role"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated caller's identity.
// Returns (zero, false) if the request carries no verified identity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok && ident.UserID != ""
}

// writeAuthError sends a pre-built JSON error body. http.Error is not used
// here because it forces a text/plain content type.
func writeAuthError(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// extractIdentity reads and verifies the bearer token.
// Header format: Authorization: Bearer <jwt>
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return Identity{}, ErrInvalidToken
	}

	claims, err := tokens.Verify(strings.TrimPrefix(header, prefix))
	if err != nil {
		return Identity{}, err
	}

	return Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}
