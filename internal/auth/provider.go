// Package auth wraps the external authentication collaborator. The provider
// owns credentials, sessions and tokens; this package only shuttles requests
// to it and extracts claims from the tokens it issues.
package auth

import (
	"context"
)

// Metadata is the free-form user metadata carried alongside credentials at
// sign-up and echoed back in the principal.
type Metadata struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	// IsAdmin is a tri-state flag: nil means the provider carries no opinion
	// and the admin-email allow-list decides.
	IsAdmin *bool `json:"is_admin,omitempty"`
}

// Principal is an authenticated identity as reported by the provider.
type Principal struct {
	ID       string
	Email    string
	Metadata Metadata
}

// Session is an authenticated session with its bearer token.
type Session struct {
	AccessToken string
	Principal   *Principal
}

// Provider is the port to the external auth collaborator.
type Provider interface {
	SignUp(ctx context.Context, email, password string, md Metadata) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error

	// Session reports the current session's principal, or nil when signed out.
	Session(ctx context.Context) (*Principal, error)

	// UserFromToken verifies a bearer token with the provider and returns its
	// principal.
	UserFromToken(ctx context.Context, token string) (*Principal, error)

	// OnSessionChange registers a callback fired after sign-in, sign-up and
	// sign-out. The callback receives nil on sign-out.
	OnSessionChange(fn func(*Principal))
}
