// Package models holds the persisted and wire-facing data structures of the
// service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted user record. The store owns it exclusively: records
// are created by registration and read by login and identity resolution,
// never updated or deleted here. Nickname and email are stored
// case-normalized and are unique.
type User struct {
	ID           uuid.UUID
	Nickname     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// NewUser carries the fields needed to insert a user. ID and CreatedAt are
// assigned elsewhere (v4 UUID app-side, creation time by the database).
type NewUser struct {
	Nickname     string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// PublicUser is the client-visible projection of a User. It never carries
// the password hash.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-visible projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Nickname:  u.Nickname,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
