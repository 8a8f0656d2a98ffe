package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/logging"
	"github.com/openmuse/openmuse/internal/server/models"
	"github.com/openmuse/openmuse/internal/server/repositories/credentials"
)

// CredentialService merges the immutable default provider catalog with a
// tenant's stored overrides and handles masking and unmasking of api keys on
// the way in and out.
type CredentialService struct {
	store    credentials.Repository
	defaults models.ProviderConfig
	logger   logging.Logger

	// The store offers per-call atomicity only, so UpdateConfig's
	// load-merge-save is serialized per tenant within this process.
	// Concurrent writers in other processes can still lose updates.
	mu          sync.Mutex
	tenantLocks map[string]*sync.Mutex
}

// NewCredentialService constructs a CredentialService. The defaults are
// cloned so later mutation by the caller cannot leak into resolution.
func NewCredentialService(store credentials.Repository, defaults models.ProviderConfig, logger logging.Logger) *CredentialService {
	return &CredentialService{
		store:       store,
		defaults:    defaults.Clone(),
		logger:      logger,
		tenantLocks: make(map[string]*sync.Mutex),
	}
}

// ResolvedConfig returns the runtime view of the tenant's configuration:
// the default catalog config deep-merged with stored overrides (tenant values
// win per field, providers unknown to the defaults are included verbatim),
// with every present api key replaced by the masked sentinel. The result is
// freshly built on every call and never persisted.
func (s *CredentialService) ResolvedConfig(ctx context.Context, tenantID string) (models.ProviderConfig, error) {
	stored, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	merged := s.defaults.Clone()
	for provider, settings := range stored {
		base, ok := merged[provider]
		if !ok {
			merged[provider] = settings.Clone()
			continue
		}
		for field, value := range settings {
			base[field] = value
		}
	}

	for _, settings := range merged {
		if settings.APIKey() != "" {
			settings[models.APIKeyField] = common.MaskedSecret
		}
	}

	return merged, nil
}

// UpdateConfig applies a partial config coming from an untrusted caller to
// the tenant's stored document and persists the full merged result.
//
// Per provider: a record unknown to the store is seeded empty; an incoming
// api_key equal to the masked sentinel keeps whatever the store holds (the
// sentinel itself is never persisted); any other value, including the empty
// string, replaces the stored one. Remaining fields overwrite
// unconditionally. Applying the same incoming payload twice leaves the same
// stored state as applying it once.
func (s *CredentialService) UpdateConfig(ctx context.Context, tenantID string, incoming models.ProviderConfig) error {
	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.store.Load(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	for provider, settings := range incoming {
		current, ok := stored[provider]
		if !ok {
			current = models.ProviderSettings{}
			stored[provider] = current
		}

		update := settings.Clone()
		if update.APIKey() == common.MaskedSecret {
			// "unchanged" marker: put back whatever is stored, which may
			// be the empty string.
			update[models.APIKeyField] = current.APIKey()
		}

		for field, value := range update {
			current[field] = value
		}
	}

	if err := s.store.Save(ctx, tenantID, stored); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	s.logger.Info(ctx, "provider config updated", "tenant", tenantID, "providers", len(incoming))
	return nil
}

func (s *CredentialService) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.tenantLocks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.tenantLocks[tenantID] = lock
	}
	return lock
}
