package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falahalshidi/shrfa-app/internal/auth"
	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
)

func authServer(t *testing.T, handler http.HandlerFunc) *auth.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return auth.NewClient(server.URL, "test-api-key", 5*time.Second, logger.NewLogger())
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func userBody(id, email string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"email":         email,
		"user_metadata": map[string]interface{}{"full_name": "Salim"},
		"identities":    []map[string]interface{}{{"provider": "email"}},
	}
}

func TestSignUpAdoptsSession(t *testing.T) {
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signup", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("apikey"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "tok-1",
			"user":         userBody("user-1", "salim@example.com"),
		})
	})

	var notified *auth.Principal
	client.OnSessionChange(func(p *auth.Principal) { notified = p })

	session, err := client.SignUp(context.Background(), "salim@example.com", "secret1", auth.Metadata{FullName: "Salim"})

	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.AccessToken)
	assert.Equal(t, "user-1", session.Principal.ID)
	require.NotNil(t, notified)
	assert.Equal(t, "user-1", notified.ID)
}

func TestSignUpDetectsDuplicateByStatus(t *testing.T) {
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error_code": "email_exists",
		})
	})

	_, err := client.SignUp(context.Background(), "salim@example.com", "secret1", auth.Metadata{})

	var duplicate *errs.DuplicateAccountError
	assert.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "salim@example.com", duplicate.Email)
}

func TestSignUpDetectsDuplicateByEmptyIdentities(t *testing.T) {
	// Some providers report a duplicate sign-up as a success whose user
	// carries no identities.
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := userBody("user-1", "salim@example.com")
		body["identities"] = []map[string]interface{}{}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "tok-1",
			"user":         body,
		})
	})

	_, err := client.SignUp(context.Background(), "salim@example.com", "secret1", auth.Metadata{})

	var duplicate *errs.DuplicateAccountError
	assert.ErrorAs(t, err, &duplicate)
}

func TestSignUpFallsBackToSignIn(t *testing.T) {
	// Email-confirmation flows return no token from /signup.
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/signup":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"user": userBody("user-1", "salim@example.com"),
			})
		case "/token":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"access_token": "tok-2",
				"user":         userBody("user-1", "salim@example.com"),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	session, err := client.SignUp(context.Background(), "salim@example.com", "secret1", auth.Metadata{})

	require.NoError(t, err)
	assert.Equal(t, "tok-2", session.AccessToken)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid_grant",
		})
	})

	_, err := client.SignIn(context.Background(), "salim@example.com", "wrong")

	assert.Error(t, err)
	var transient *errs.TransientIOError
	assert.False(t, errors.As(err, &transient), "bad credentials must not look transient")
}

func TestSessionAfterSignOut(t *testing.T) {
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"access_token": "tok-1",
				"user":         userBody("user-1", "salim@example.com"),
			})
		case "/logout":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	var lastNotified *auth.Principal
	client.OnSessionChange(func(p *auth.Principal) { lastNotified = p })

	_, err := client.SignIn(context.Background(), "salim@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, lastNotified)

	require.NoError(t, client.SignOut(context.Background()))
	assert.Nil(t, lastNotified)

	principal, err := client.Session(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, principal)
}

func TestUserFromToken(t *testing.T) {
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, userBody("user-1", "salim@example.com"))
	})

	principal, err := client.UserFromToken(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, "Salim", principal.Metadata.FullName)
}

func TestUserFromTokenRejected(t *testing.T) {
	client := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.UserFromToken(context.Background(), "expired")

	assert.Error(t, err)
}
