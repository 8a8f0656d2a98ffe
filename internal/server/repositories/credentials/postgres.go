package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openmuse/openmuse/internal/dbx"
	"github.com/openmuse/openmuse/internal/server/models"
)

// PostgresRepository stores each tenant's provider config as a JSONB document
// keyed by user id. Save is an upsert, so the whole document is replaced in
// one statement.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context, userID string) (models.ProviderConfig, error) {
	query :=
		`SELECT providers FROM user_provider_configs
		 WHERE user_id = $1
		 `

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ProviderConfig{}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	cfg := models.ProviderConfig{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding provider config: %w", err)
	}

	return cfg, nil
}

func (r *PostgresRepository) Save(ctx context.Context, userID string, cfg models.ProviderConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding provider config: %w", err)
	}

	query :=
		`INSERT INTO user_provider_configs (user_id, providers)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET providers = EXCLUDED.providers, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
