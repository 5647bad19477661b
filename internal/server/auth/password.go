package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/authgate/internal/shared"
)

// HashPassword generates a bcrypt hash of the given plaintext password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", shared.Wrap(shared.KindInternal, err, "unable to hash password")
	}
	return string(h), nil
}

// CheckPassword reports whether the cleartext password matches the stored
// hash. A mismatch is not an error; failures of the hashing primitive
// itself are internal.
func CheckPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, shared.Wrap(shared.KindInternal, err, "unable to verify password")
	}
}
