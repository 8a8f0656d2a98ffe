// Package credentials persists per-tenant provider configuration documents.
// One logical document per user; a single Load or Save is atomic, a
// read-modify-write sequence across the two is not.
package credentials

import (
	"context"

	"github.com/openmuse/openmuse/internal/server/models"
)

type Repository interface {
	// Load returns the tenant's stored config, or an empty config when the
	// tenant has never saved one.
	Load(ctx context.Context, userID string) (models.ProviderConfig, error)

	// Save replaces the tenant's stored config with cfg.
	Save(ctx context.Context, userID string, cfg models.ProviderConfig) error
}
