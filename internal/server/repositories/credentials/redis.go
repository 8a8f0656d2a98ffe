package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/openmuse/openmuse/internal/server/models"
)

// configKeyPrefix is the Redis key prefix for provider config documents.
const configKeyPrefix = "provider_config:"

// RedisRepository keeps provider configs in Redis, one JSON document per
// tenant. Documents have no TTL; credentials live until overwritten.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Load(ctx context.Context, userID string) (models.ProviderConfig, error) {
	raw, err := r.client.Get(ctx, configKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ProviderConfig{}, nil
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	cfg := models.ProviderConfig{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding provider config: %w", err)
	}

	return cfg, nil
}

func (r *RedisRepository) Save(ctx context.Context, userID string, cfg models.ProviderConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding provider config: %w", err)
	}

	if err := r.client.Set(ctx, configKeyPrefix+userID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}
