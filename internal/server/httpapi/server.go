// Package httpapi exposes the auth and config endpoints over HTTP. Handlers
// are thin: they bind the request, call the session layer, and render the
// response. No business logic lives here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/openmuse/openmuse/internal/logging"
	"github.com/openmuse/openmuse/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	echo   *echo.Echo
	addr   string
	logger logging.Logger
}

func NewServer(addr string, logger logging.Logger, users *services.UserService, session *services.SessionService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	h := NewHandler(users, session)
	registerRoutes(e, h, session)

	return &Server{echo: e, addr: addr, logger: logger}
}

func registerRoutes(e *echo.Echo, h *Handler, session *services.SessionService) {
	api := e.Group("/api")

	// Public routes.
	api.POST("/auth/register", h.Register)
	api.POST("/auth/token", h.Token)

	// Everything else requires a valid bearer token.
	authed := api.Group("", RequireAuth(session))
	authed.GET("/auth/me", h.Me)
	authed.GET("/config", h.GetConfig)
	authed.POST("/config", h.UpdateConfig)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run starts the HTTP listener and blocks until ctx is cancelled or the
// listener fails. On cancellation the server drains in-flight requests for up
// to shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.addr)
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
