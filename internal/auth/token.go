package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims this system reads from a provider-issued token.
type TokenClaims struct {
	Subject  string
	Email    string
	Metadata Metadata
}

// ExtractTokenFromRequest extracts a bearer token from an HTTP request's
// Authorization header.
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization header format must be 'Bearer {token}'")
	}

	return parts[1], nil
}

// ExtractClaims parses a provider-issued JWT and returns the claims this
// system cares about. The signature is not validated here; the middleware
// verifies the token against the provider itself.
func ExtractClaims(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("subject claim not found in token")
	}

	out := &TokenClaims{Subject: sub}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if v, ok := meta["full_name"].(string); ok {
			out.Metadata.FullName = v
		}
		if v, ok := meta["phone"].(string); ok {
			out.Metadata.Phone = v
		}
		if v, ok := meta["is_admin"].(bool); ok {
			out.Metadata.IsAdmin = &v
		}
	}
	return out, nil
}
