package httpapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

const (
	identityKey = "authgate.identity"
	adminKey    = "authgate.admin"

	bearerPrefix = "Bearer "
)

// authenticate resolves a verified identity from the Authorization header
// and stores it on the request context. The chain checks the header, the
// Bearer prefix, the token signature and the subject in order; the first
// failure short-circuits as unauthorized.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return shared.E(shared.KindUnauthorized, "missing Authorization header")
		}

		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok {
			return shared.E(shared.KindUnauthorized, "expected Bearer token")
		}

		claims, err := s.tokens.Decode(token)
		if err != nil {
			return err
		}

		identity, err := auth.IdentityFromClaims(claims)
		if err != nil {
			return err
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

// requireAdmin asserts the admin flag on the authenticated identity.
// Authenticated non-admins get forbidden, distinct from unauthenticated.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := identityFrom(c)
		if err != nil {
			return err
		}

		admin, err := auth.AsAdmin(identity)
		if err != nil {
			return err
		}

		c.Set(adminKey, admin)
		return next(c)
	}
}

func identityFrom(c echo.Context) (auth.Identity, error) {
	identity, ok := c.Get(identityKey).(auth.Identity)
	if !ok {
		return auth.Identity{}, shared.E(shared.KindUnauthorized, "missing Authorization header")
	}
	return identity, nil
}

func adminFrom(c echo.Context) (auth.Admin, error) {
	admin, ok := c.Get(adminKey).(auth.Admin)
	if !ok {
		return auth.Admin{}, shared.E(shared.KindForbidden, "admin role is required for this endpoint")
	}
	return admin, nil
}
