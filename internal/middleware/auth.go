package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/telemetry"
)

type contextKey string

const (
	// PrincipalContextKey is the context key for the authenticated caller
	PrincipalContextKey contextKey = "principal"
)

// Authenticator resolves a bearer token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// WithPrincipal reads the bearer token and, when it is valid, adds the caller
// to the request context. Requests without a token pass through; an invalid
// token is rejected so clients learn their session expired.
//
// EventSource cannot set headers, so GET requests may also carry the token
// in the access_token query parameter.
func WithPrincipal(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				respondWithError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated caller.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r.Context()) == nil {
			respondUnauthorized(w, r, "Access denied. No token provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers that are not administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := GetPrincipal(r.Context())
		if principal == nil {
			respondUnauthorized(w, r, "Access denied. No token provided.")
			return
		}
		if !principal.IsAdmin {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal returns the authenticated caller, or nil.
func GetPrincipal(ctx context.Context) *domain.Principal {
	principal, ok := ctx.Value(PrincipalContextKey).(*domain.Principal)
	if !ok {
		return nil
	}
	return principal
}

// SentryUser adapts GetPrincipal for telemetry.SentryUserMiddleware.
func SentryUser(ctx context.Context) *telemetry.UserInfo {
	principal := GetPrincipal(ctx)
	if principal == nil {
		return nil
	}
	return &telemetry.UserInfo{ID: principal.UserID.String(), Email: principal.Email}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("access_token")
	}
	return ""
}
