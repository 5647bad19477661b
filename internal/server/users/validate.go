package users

import (
	"strings"

	"github.com/dmitrijs2005/authgate/internal/shared"
)

const (
	nicknameMinLen = 3
	nicknameMaxLen = 32
	passwordMinLen = 8
)

// ValidateNickname trims surrounding whitespace and enforces the length
// bounds, returning the trimmed value.
func ValidateNickname(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < nicknameMinLen || len(trimmed) > nicknameMaxLen {
		return "", shared.E(shared.KindBadRequest,
			"nickname length must be between %d and %d characters", nicknameMinLen, nicknameMaxLen)
	}
	return trimmed, nil
}

// NormalizeEmail lowercases and trims the address and applies a minimal
// shape check ('@' somewhere inside, no spaces). The normalized form is
// what gets stored and compared, which is what makes email uniqueness
// case-insensitive.
func NormalizeEmail(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))

	valid := strings.Contains(trimmed, "@") &&
		!strings.HasPrefix(trimmed, "@") &&
		!strings.HasSuffix(trimmed, "@") &&
		!strings.Contains(trimmed, " ")

	if !valid {
		return "", shared.E(shared.KindBadRequest, "email must be a valid address")
	}
	return trimmed, nil
}

// ValidatePassword enforces the minimum length. The plaintext is otherwise
// passed through untouched, without trimming: what the user typed is what
// gets hashed.
func ValidatePassword(value string) error {
	if len(value) < passwordMinLen {
		return shared.E(shared.KindBadRequest,
			"password must contain at least %d characters", passwordMinLen)
	}
	return nil
}
