package auth

import (
	"context"
	"net/http"
)

type contextKey string

const principalKey contextKey = "principal"

// Middleware authenticates requests. The principal is built from the token's
// own claims; the provider round-trip only confirms the token is still
// accepted, so a revoked session cannot ride on locally valid claims.
func Middleware(provider Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := ExtractClaims(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if _, err := provider.UserFromToken(r.Context(), token); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			principal := &Principal{
				ID:       claims.Subject,
				Email:    claims.Email,
				Metadata: claims.Metadata,
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the authenticated principal stored by Middleware,
// or nil when the request was not authenticated.
func PrincipalFrom(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}
