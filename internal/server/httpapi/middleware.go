package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/server/models"
	"github.com/openmuse/openmuse/internal/server/services"
)

const currentUserKey = "currentUser"

// RequireAuth resolves the bearer token into a user and stores it on the
// request context. Any failure, missing header, bad token or unknown user,
// yields the same 401 so the caller learns nothing about the cause.
func RequireAuth(session *services.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(common.AuthHeaderName))
			if !ok {
				return unauthenticated(c)
			}
			user, err := session.Authenticate(c.Request().Context(), token)
			if err != nil {
				return unauthenticated(c)
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user placed on the context by RequireAuth.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func unauthenticated(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", "Bearer")
	return c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Could not validate credentials"})
}
