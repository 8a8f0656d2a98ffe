package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/logging"
	"github.com/openmuse/openmuse/internal/server/catalog"
	"github.com/openmuse/openmuse/internal/server/models"
	"github.com/openmuse/openmuse/internal/server/repositories/credentials"
)

// ToolService owns the active tool registries: for each tenant (and for the
// process scope, keyed by the empty tenant id) the set of tools whose
// provider currently has a credential. Snapshots are replaced wholesale, so
// readers always observe either the previous or the next complete state.
type ToolService struct {
	store    credentials.Repository
	catalog  *catalog.Catalog
	defaults models.ProviderConfig
	logger   logging.Logger

	// group collapses concurrent rebuilds for the same tenant into one.
	group singleflight.Group

	mu sync.RWMutex
	// system tools stay registered regardless of credentials and are
	// re-added on every rebuild.
	system map[string]catalog.Tool
	// active holds the current snapshot per tenant scope.
	active map[string]map[string]catalog.Tool
}

// NewToolService constructs a ToolService. systemTools are registered up
// front and survive every Reinitialize call.
func NewToolService(store credentials.Repository, cat *catalog.Catalog, defaults models.ProviderConfig, logger logging.Logger, systemTools []catalog.Tool) *ToolService {
	s := &ToolService{
		store:    store,
		catalog:  cat,
		defaults: defaults.Clone(),
		logger:   logger,
		system:   make(map[string]catalog.Tool),
		active:   make(map[string]map[string]catalog.Tool),
	}
	for _, t := range systemTools {
		s.system[t.ID] = t
	}
	return s
}

// Reinitialize recomputes the tenant's tool set from the unmasked stored
// provider config (masking would hide whether a credential is present) and
// swaps it in as one step. With the empty tenant id it evaluates the default
// catalog config instead, which is the process-wide boot scope.
//
// If loading the config fails, the previous snapshot stays in place and the
// failure is logged and returned; callers that need freshness should check
// the result and retry. Concurrent calls for one tenant share a single
// rebuild.
func (s *ToolService) Reinitialize(ctx context.Context, tenantID string) error {
	_, err, _ := s.group.Do(tenantID, func() (any, error) {
		cfg := s.defaults
		if tenantID != "" {
			loaded, err := s.store.Load(ctx, tenantID)
			if err != nil {
				s.logger.Error(ctx, "tool registry rebuild failed, keeping previous snapshot",
					"tenant", tenantID, "error", err.Error())
				return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
			}
			cfg = loaded
		}

		snapshot := make(map[string]catalog.Tool)
		for provider, settings := range cfg {
			if settings.APIKey() == "" {
				continue
			}
			for _, tool := range s.catalog.ToolsFor(provider) {
				snapshot[tool.ID] = tool
			}
		}

		s.mu.Lock()
		for id, tool := range s.system {
			snapshot[id] = tool
		}
		s.active[tenantID] = snapshot
		s.mu.Unlock()

		s.logger.Info(ctx, "tool registry rebuilt", "tenant", tenantID, "tools", len(snapshot))
		return nil, nil
	})
	return err
}

// RegisterIfAbsent registers a tool that must always be present regardless
// of credentials. Registering an id twice keeps the first tool. The tool is
// also added to every existing snapshot so it is visible before the next
// rebuild.
func (s *ToolService) RegisterIfAbsent(toolID string, tool catalog.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.system[toolID]; ok {
		return
	}
	s.system[toolID] = tool

	for _, snapshot := range s.active {
		if _, ok := snapshot[toolID]; !ok {
			snapshot[toolID] = tool
		}
	}
}

// Get looks up an active tool for the tenant. A tenant that has never been
// reinitialized falls back to the process-wide scope. A tool whose provider
// currently has no credential is simply not found; that is a result, not an
// error.
func (s *ToolService) Get(tenantID, toolID string) (catalog.Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tool, ok := s.snapshotLocked(tenantID)[toolID]
	return tool, ok
}

// ListAll returns a copy of the tenant's current active tool set. Mutating
// the returned map does not affect registry state.
func (s *ToolService) ListAll(tenantID string) map[string]catalog.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.snapshotLocked(tenantID)
	out := make(map[string]catalog.Tool, len(snapshot))
	for id, tool := range snapshot {
		out[id] = tool
	}
	return out
}

// snapshotLocked resolves the snapshot for a tenant scope. Callers must hold
// at least the read lock.
func (s *ToolService) snapshotLocked(tenantID string) map[string]catalog.Tool {
	if snapshot, ok := s.active[tenantID]; ok {
		return snapshot
	}
	if snapshot, ok := s.active[""]; ok {
		return snapshot
	}
	return s.system
}
