// Package httpapi exposes the HTTP surface of the service. Handlers are
// thin: they bind the request, call the account service and write the
// response; every error funnels through the kind -> status table in the
// error handler.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/users"
	"github.com/dmitrijs2005/authgate/internal/shared"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	users   *users.Service
	tokens  *auth.Service
	echo    *echo.Echo
}

func NewServer(address string, l logging.Logger, us *users.Service, ts *auth.Service) *Server {
	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		tokens:  ts,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "request",
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", s.health)
	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)
	e.GET("/auth/me", s.me, s.authenticate)
	e.GET("/admin/ping", s.adminPing, s.authenticate, s.requireAdmin)

	s.echo = e
	return s
}

// Run starts the listener and blocks until ctx is cancelled or the server
// fails. Cancellation triggers a bounded graceful shutdown.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

var statusByKind = map[shared.Kind]int{
	shared.KindBadRequest:     http.StatusBadRequest,
	shared.KindUnauthorized:   http.StatusUnauthorized,
	shared.KindForbidden:      http.StatusForbidden,
	shared.KindConflict:       http.StatusConflict,
	shared.KindUnavailable:    http.StatusServiceUnavailable,
	shared.KindSchemaMismatch: http.StatusInternalServerError,
	shared.KindInternal:       http.StatusInternalServerError,
}

// handleError recovers every handler error into a typed JSON response.
// Clients get the formatted message and nothing else; causes stay in logs.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := fmt.Sprintf("%s: %v", shared.KindInternal, err)

	var appErr *shared.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = statusByKind[appErr.Kind]
		message = appErr.Error()
	case errors.As(err, &httpErr):
		// Router-level errors (404, 405) keep echo's code.
		status = httpErr.Code
		message = fmt.Sprintf("%v", httpErr.Message)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", "error", err)
	}

	if writeErr := c.JSON(status, errorResponse{Error: message}); writeErr != nil {
		s.logger.Error(c.Request().Context(), "unable to write error response", "error", writeErr)
	}
}
