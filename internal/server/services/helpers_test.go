package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/logging"
	"github.com/openmuse/openmuse/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// fakeCredStore is an in-memory credentials.Repository. loadErrOn fails the
// n-th Load call (1-based), loadDelay slows Load down for concurrency tests.
type fakeCredStore struct {
	mu        sync.Mutex
	docs      map[string]models.ProviderConfig
	loadCalls int
	loadErrOn int
	loadErr   error
	saveErr   error
	loadDelay time.Duration
}

func newFakeCredStore() *fakeCredStore {
	return &fakeCredStore{docs: make(map[string]models.ProviderConfig)}
}

func (f *fakeCredStore) Load(ctx context.Context, userID string) (models.ProviderConfig, error) {
	f.mu.Lock()
	f.loadCalls++
	calls := f.loadCalls
	delay := f.loadDelay
	doc, ok := f.docs[userID]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if f.loadErr != nil && (f.loadErrOn == 0 || calls == f.loadErrOn) {
		return nil, f.loadErr
	}
	if !ok {
		return models.ProviderConfig{}, nil
	}
	return doc.Clone(), nil
}

func (f *fakeCredStore) Save(ctx context.Context, userID string, cfg models.ProviderConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	f.docs[userID] = cfg.Clone()
	f.mu.Unlock()
	return nil
}

func (f *fakeCredStore) stored(userID string) models.ProviderConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[userID]
	if !ok {
		return nil
	}
	return doc.Clone()
}

// fakeUsersRepo is an in-memory users.Repository enforcing the same
// uniqueness rules as the Postgres implementation.
type fakeUsersRepo struct {
	mu          sync.Mutex
	byID        map[string]*models.User
	createCalls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	for _, existing := range f.byID {
		if existing.Username == user.Username {
			return nil, common.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return nil, common.ErrDuplicateEmail
		}
	}
	u := *user
	u.CreatedAt = time.Now()
	f.byID[u.ID] = &u
	return &u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsersRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}
