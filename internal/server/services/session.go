package services

import (
	"context"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/logging"
	"github.com/openmuse/openmuse/internal/server/auth"
	"github.com/openmuse/openmuse/internal/server/catalog"
	"github.com/openmuse/openmuse/internal/server/config"
	"github.com/openmuse/openmuse/internal/server/models"
)

// SessionService is the composition point the transport layer talks to: it
// derives the authenticated tenant from a bearer token and drives credential
// resolution and tool activation for that tenant.
type SessionService struct {
	users       *UserService
	credentials *CredentialService
	tools       *ToolService
	jwtSecret   []byte
	logger      logging.Logger
}

func NewSessionService(users *UserService, creds *CredentialService, tools *ToolService, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		users:       users,
		credentials: creds,
		tools:       tools,
		jwtSecret:   []byte(cfg.SecretKey),
		logger:      logger,
	}
}

// Authenticate resolves a bearer token to the user it identifies. Every
// failure mode (bad signature, expired token, unknown subject) collapses
// into ErrUnauthenticated so nothing about the cause leaks to the caller.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, ok := auth.SubjectFromToken(token, s.jwtSecret)
	if !ok {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	return user, nil
}

// ResolvedConfig returns the masked runtime config for the user.
func (s *SessionService) ResolvedConfig(ctx context.Context, user *models.User) (models.ProviderConfig, error) {
	return s.credentials.ResolvedConfig(ctx, user.ID)
}

// UpdateConfig applies a partial config for the user and then rebuilds the
// user's tool registry. A failed rebuild does not fail the update: the write
// the user asked for has already been persisted and the registry keeps
// serving the previous snapshot until the next rebuild.
func (s *SessionService) UpdateConfig(ctx context.Context, user *models.User, incoming models.ProviderConfig) error {
	if err := s.credentials.UpdateConfig(ctx, user.ID, incoming); err != nil {
		return err
	}

	if err := s.tools.Reinitialize(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "tool registry rebuild after config update failed", "tenant", user.ID)
	}

	return nil
}

// Tool looks up an active tool for the user.
func (s *SessionService) Tool(user *models.User, toolID string) (catalog.Tool, bool) {
	return s.tools.Get(user.ID, toolID)
}

// ActiveTools returns a snapshot of the user's active tool set.
func (s *SessionService) ActiveTools(user *models.User) map[string]catalog.Tool {
	return s.tools.ListAll(user.ID)
}
