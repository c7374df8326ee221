package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falahalshidi/shrfa-app/internal/auth"
)

// verifyProvider records token verification calls and answers with a canned
// verdict.
type verifyProvider struct {
	verifyErr error
	calls     int
	lastToken string
}

func (v *verifyProvider) SignUp(ctx context.Context, email, password string, md auth.Metadata) (*auth.Session, error) {
	return nil, nil
}

func (v *verifyProvider) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return nil, nil
}

func (v *verifyProvider) SignOut(ctx context.Context) error { return nil }

func (v *verifyProvider) Session(ctx context.Context) (*auth.Principal, error) { return nil, nil }

func (v *verifyProvider) UserFromToken(ctx context.Context, token string) (*auth.Principal, error) {
	v.calls++
	v.lastToken = token
	if v.verifyErr != nil {
		return nil, v.verifyErr
	}
	// A deliberately different identity: the middleware must not use it.
	return &auth.Principal{ID: "provider-id"}, nil
}

func (v *verifyProvider) OnSessionChange(fn func(*auth.Principal)) {}

func runMiddleware(provider auth.Provider, authorization string) (*httptest.ResponseRecorder, *auth.Principal) {
	var seen *auth.Principal
	handler := auth.Middleware(provider)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestMiddlewareBuildsPrincipalFromClaims(t *testing.T) {
	provider := &verifyProvider{}
	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "salim@example.com",
		"user_metadata": map[string]interface{}{
			"full_name": "Salim",
			"is_admin":  true,
		},
	})

	rec, principal := runMiddleware(provider, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	// Identity comes from the token claims, not the verification response.
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, "salim@example.com", principal.Email)
	assert.Equal(t, "Salim", principal.Metadata.FullName)
	require.NotNil(t, principal.Metadata.IsAdmin)
	assert.True(t, *principal.Metadata.IsAdmin)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, token, provider.lastToken)
}

func TestMiddlewareRejectsRevokedToken(t *testing.T) {
	provider := &verifyProvider{verifyErr: errors.New("token rejected by auth provider")}
	token := signedToken(t, jwt.MapClaims{"sub": "user-1"})

	rec, principal := runMiddleware(provider, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
	assert.Equal(t, 1, provider.calls)
}

func TestMiddlewareRejectsMalformedToken(t *testing.T) {
	provider := &verifyProvider{}

	rec, principal := runMiddleware(provider, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
	// A token that does not even parse never reaches the provider.
	assert.Equal(t, 0, provider.calls)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	rec, principal := runMiddleware(&verifyProvider{}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}
