// Package authctl implements the operator CLI. Registration over HTTP
// never grants the admin flag, so the first admin has to be created out of
// band; create-admin does that directly against the database, with the
// same validation rules the registration endpoint applies.
package authctl

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	usersrepo "github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/dmitrijs2005/authgate/internal/server/users"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type App struct {
	repo usersrepo.Repository
	out  io.Writer
}

func NewApp(repo usersrepo.Repository, out io.Writer) *App {
	return &App{repo: repo, out: out}
}

// CreateAdmin prompts for a password and inserts an admin user. Nickname
// and email go through the same normalization as registration, so the
// stored record is indistinguishable from a registered one apart from the
// admin flag.
func (a *App) CreateAdmin(ctx context.Context, nickname, email string) (*models.User, error) {
	validNickname, err := users.ValidateNickname(nickname)
	if err != nil {
		return nil, err
	}

	validEmail, err := users.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(a.out, "Password: ")
	password, err := readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return nil, fmt.Errorf("error reading password: %w", err)
	}

	if err := users.ValidatePassword(string(password)); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return nil, err
	}

	user, err := a.repo.Create(ctx, &models.NewUser{
		Nickname:     validNickname,
		Email:        validEmail,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "created admin %s (%s) with id %s\n", user.Nickname, user.Email, user.ID)
	return user, nil
}
