// Package users implements the account service: registration, login and
// token-backed lookup. Handlers stay thin; normalization, validation and
// credential verification all live here.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	usersrepo "github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

type Service struct {
	repo   usersrepo.Repository
	tokens *auth.Service
}

func NewService(repo usersrepo.Repository, tokens *auth.Service) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type RegisterParams struct {
	Nickname string
	Email    string
	Password string
}

// AuthResult couples a freshly issued token with the public projection of
// the user it belongs to.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// Register validates and normalizes the input, stores the user with a
// hashed password and a false admin flag, and issues a token. A uniqueness
// violation surfaces as conflict straight from the repository.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*AuthResult, error) {
	nickname, err := ValidateNickname(p.Nickname)
	if err != nil {
		return nil, err
	}

	email, err := NormalizeEmail(p.Email)
	if err != nil {
		return nil, err
	}

	if err := ValidatePassword(p.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &models.NewUser{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      false,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Login verifies the credentials and issues a token. An unknown email and a
// wrong password produce the same unauthorized error so user existence
// never leaks.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, usersrepo.ErrNotFound) {
			return nil, shared.E(shared.KindUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.E(shared.KindUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// GetByID resolves a user from a token subject. A record that has vanished
// since issuance is unauthorized, not a not-found.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usersrepo.ErrNotFound) {
			return nil, shared.E(shared.KindUnauthorized, "user from token no longer exists")
		}
		return nil, err
	}

	return user, nil
}
