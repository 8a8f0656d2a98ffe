package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/server/auth"
	"github.com/openmuse/openmuse/internal/server/config"
	"github.com/openmuse/openmuse/internal/server/models"
)

func newSessionFixture(t *testing.T) (*SessionService, *fakeUsersRepo, *fakeCredStore) {
	t.Helper()
	cfg := &config.Config{SecretKey: "session-secret", AccessTokenValidityDuration: time.Hour}

	usersRepo := newFakeUsersRepo()
	credStore := newFakeCredStore()

	userSvc := NewUserService(usersRepo, cfg)
	credSvc := NewCredentialService(credStore, testDefaults(), testLogger())
	toolSvc := NewToolService(credStore, testCatalog(), testDefaults(), testLogger(), systemTools())

	return NewSessionService(userSvc, credSvc, toolSvc, cfg, testLogger()), usersRepo, credStore
}

func registerAndLogin(t *testing.T, svc *SessionService) (string, *models.User) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.users.Register(ctx, "alice", "alice@example.com", "s3cret-password")
	require.NoError(t, err)
	token, user, err := svc.users.Login(ctx, "alice", "s3cret-password")
	require.NoError(t, err)
	return token, user
}

func TestAuthenticate_ValidToken(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	token, user := registerAndLogin(t, svc)

	got, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestAuthenticate_UniformFailures(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	ctx := context.Background()

	// garbage token
	_, err := svc.Authenticate(ctx, "not.a.token")
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	// expired token
	expired, genErr := auth.GenerateToken("some-user", []byte("session-secret"), -time.Second)
	require.NoError(t, genErr)
	_, err = svc.Authenticate(ctx, expired)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	// wrong signing secret
	forged, genErr := auth.GenerateToken("some-user", []byte("other-secret"), time.Hour)
	require.NoError(t, genErr)
	_, err = svc.Authenticate(ctx, forged)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	// valid token for a user that no longer exists
	orphan, genErr := auth.GenerateToken("deleted-user", []byte("session-secret"), time.Hour)
	require.NoError(t, genErr)
	_, err = svc.Authenticate(ctx, orphan)
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestUpdateConfig_RebuildsToolRegistry(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	_, user := registerAndLogin(t, svc)
	ctx := context.Background()

	_, ok := svc.Tool(user, "paint_a")
	require.False(t, ok)

	err := svc.UpdateConfig(ctx, user, models.ProviderConfig{"jaaz": {"api_key": "k"}})
	require.NoError(t, err)

	_, ok = svc.Tool(user, "paint_a")
	require.True(t, ok)

	// masked view reflects the stored key without revealing it
	resolved, err := svc.ResolvedConfig(ctx, user)
	require.NoError(t, err)
	require.Equal(t, common.MaskedSecret, resolved["jaaz"].APIKey())
}

func TestUpdateConfig_SucceedsEvenIfRebuildFails(t *testing.T) {
	svc, _, credStore := newSessionFixture(t)
	_, user := registerAndLogin(t, svc)

	// UpdateConfig loads once before saving; fail the registry's follow-up load
	credStore.loadErr = errors.New("down")
	credStore.loadErrOn = 2

	err := svc.UpdateConfig(context.Background(), user, models.ProviderConfig{"jaaz": {"api_key": "k"}})
	require.NoError(t, err)

	// the write went through even though the rebuild did not
	require.Equal(t, "k", credStore.stored(user.ID)["jaaz"].APIKey())
}

func TestUpdateConfig_SurfacesStoreFailure(t *testing.T) {
	svc, _, credStore := newSessionFixture(t)
	_, user := registerAndLogin(t, svc)

	credStore.saveErr = errors.New("down")

	err := svc.UpdateConfig(context.Background(), user, models.ProviderConfig{"jaaz": {"api_key": "k"}})
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestActiveTools_SnapshotForUser(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	_, user := registerAndLogin(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.UpdateConfig(ctx, user, models.ProviderConfig{"replicate": {"api_key": "k"}}))

	all := svc.ActiveTools(user)
	require.Contains(t, all, "render_a")
	require.Contains(t, all, "write_plan")
	require.NotContains(t, all, "paint_a")
}
