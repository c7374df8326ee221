package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile is the application-side user record, created on first sign-in.
// The id matches the auth provider's principal identifier.
type Profile struct {
	bun.BaseModel `bun:"table:profiles"`

	ID        string    `bun:"id,pk" json:"id"`
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	Phone     string    `bun:"phone,nullzero" json:"phone,omitempty"`
	IsAdmin   bool      `bun:"is_admin" json:"is_admin"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// User is the resolved session user handed to the rest of the app. It merges
// the authenticated principal with its stored profile and is never persisted
// itself.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}
