package auth

import (
	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/shared"
)

// Identity is the verified identity resolved from decoded claims. It lives
// only for the duration of a request.
type Identity struct {
	ID       uuid.UUID
	Nickname string
	Email    string
	IsAdmin  bool
}

// IdentityFromClaims parses the subject claim into the identifier type and
// builds the identity. An unparseable subject is unauthorized.
func IdentityFromClaims(claims *Claims) (Identity, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, shared.E(shared.KindUnauthorized, "token subject is not a valid UUID")
	}

	return Identity{
		ID:       id,
		Nickname: claims.Nickname,
		Email:    claims.Email,
		IsAdmin:  claims.IsAdmin,
	}, nil
}

// Admin wraps an identity whose admin flag has been asserted. Constructing
// one outside AsAdmin defeats the point.
type Admin struct {
	Identity
}

// AsAdmin asserts the admin flag on id. An authenticated non-admin gets
// forbidden, distinct from unauthenticated.
func AsAdmin(id Identity) (Admin, error) {
	if !id.IsAdmin {
		return Admin{}, shared.E(shared.KindForbidden, "admin role is required for this endpoint")
	}
	return Admin{Identity: id}, nil
}
