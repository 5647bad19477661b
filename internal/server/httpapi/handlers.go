package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/users"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

type registerRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type adminPingResponse struct {
	Status   string `json:"status"`
	AdminID  string `json:"admin_id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return shared.E(shared.KindBadRequest, "request body must be valid JSON")
	}

	res, err := s.users.Register(c.Request().Context(), users.RegisterParams{
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return shared.E(shared.KindBadRequest, "request body must be valid JSON")
	}

	res, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// me re-fetches the user behind the token; an identity whose record has
// vanished since issuance is rejected, not served from claims.
func (s *Server) me(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user.Public())
}

func (s *Server) adminPing(c echo.Context) error {
	admin, err := adminFrom(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminPingResponse{
		Status:   "ok",
		AdminID:  admin.ID.String(),
		Nickname: admin.Nickname,
		Email:    admin.Email,
	})
}
