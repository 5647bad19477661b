// Package auth implements the stateless token lifecycle: issuing and
// decoding signed bearer tokens, resolving verified identities from their
// claims, and hashing passwords. It holds no persistent state beyond the
// signing secret and the configured token lifetime, fixed at construction.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

// Claims is the signed payload embedded in a token: the standard registered
// claims (sub/iat/exp) plus the identity attributes the service needs to
// resolve a request without a database lookup.
type Claims struct {
	jwt.RegisteredClaims
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// Service issues and verifies HS256-signed tokens. It is safe for
// concurrent use without coordination.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue builds claims for the user valid from now until now+TTL and returns
// the signed token string.
func (s *Service) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Nickname: user.Nickname,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", shared.Wrap(shared.KindInternal, err, "unable to sign token")
	}

	return token, nil
}

// Decode verifies the signature and expiry of tokenString and returns the
// embedded claims. Every verification failure (bad signature, malformed
// structure, expired) comes back as unauthorized; callers cannot tell a
// forged token from a stale one.
func (s *Service) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, shared.Wrap(shared.KindUnauthorized, err, "invalid token")
	}
	if !token.Valid {
		return nil, shared.E(shared.KindUnauthorized, "invalid token")
	}

	return claims, nil
}
