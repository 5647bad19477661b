// Package users persists and looks up user records. Uniqueness of nickname
// and email is enforced by the database constraints, not pre-checked here;
// a native unique-violation is surfaced as a conflict.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// ErrNotFound is returned when no user matches the lookup. Callers decide
// what it means; the login path collapses it into unauthorized so user
// existence never leaks.
var ErrNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, user *models.NewUser) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
