package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/server/models"
	"github.com/openmuse/openmuse/internal/server/services"
)

type Handler struct {
	users   *services.UserService
	session *services.SessionService
}

func NewHandler(users *services.UserService, session *services.SessionService) *Handler {
	return &Handler{users: users, session: session}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	UserInfo    userResponse `json:"user_info"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Register creates a new account.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "username, email and password are required"})
	}

	user, err := h.users.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Username already registered"})
		case errors.Is(err, common.ErrDuplicateEmail):
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Email already registered"})
		case errors.Is(err, common.ErrPasswordTooLong):
			return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Password must not exceed 72 bytes"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
		}
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Token exchanges a username and password for a bearer token. The request
// arrives as a form post, mirroring the OAuth2 password flow.
func (h *Handler) Token(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "username and password are required"})
	}

	token, user, err := h.users.Login(c.Request().Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return c.JSON(http.StatusUnauthorized, errorResponse{Detail: "Incorrect username or password"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserInfo:    toUserResponse(user),
	})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(CurrentUser(c)))
}

// GetConfig returns the caller's resolved provider configuration with all
// secret values masked.
func (h *Handler) GetConfig(c echo.Context) error {
	cfg, err := h.session.ResolvedConfig(c.Request().Context(), CurrentUser(c))
	if err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: "configuration store unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
	return c.JSON(http.StatusOK, cfg)
}

// UpdateConfig merges the submitted provider settings into the caller's
// stored configuration and rebuilds their active tool set.
func (h *Handler) UpdateConfig(c echo.Context) error {
	var updates models.ProviderConfig
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
	}

	if err := h.session.UpdateConfig(c.Request().Context(), CurrentUser(c), updates); err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Detail: "configuration store unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}

	return c.JSON(http.StatusOK, statusResponse{Status: "success", Message: "Configuration updated successfully"})
}
