// Package services contains server-side business logic: account management,
// credential resolution, tool activation, and the session context tying them
// together for an authenticated tenant.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/server/auth"
	"github.com/openmuse/openmuse/internal/server/config"
	"github.com/openmuse/openmuse/internal/server/models"
	"github.com/openmuse/openmuse/internal/server/repositories/users"
)

// UserService handles registration, login, and minting access tokens.
type UserService struct {
	repo                        users.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using the users repository and
// server config.
func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a regular user account. Duplicate username/email and
// password policy violations surface as their sentinel errors.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createUser(ctx, username, email, password, models.RoleUser)
}

// CreateAdmin creates an account with the admin role. Used by the bootstrap
// command, not exposed over HTTP.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	return s.createUser(ctx, username, email, password, models.RoleAdmin)
}

func (s *UserService) createUser(ctx context.Context, username, email, password, role string) (*models.User, error) {
	// bcrypt truncates beyond 72 bytes, so the ceiling is enforced here at
	// the account boundary rather than inside the hasher.
	if len(password) > auth.MaxPasswordBytes {
		return nil, common.ErrPasswordTooLong
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return created, nil
}

// Login verifies the credentials and, on success, returns a fresh access
// token together with the user. Wrong username and wrong password yield the
// same error so callers cannot tell which one failed.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// GetByID loads a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
