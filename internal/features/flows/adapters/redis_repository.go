package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"procurement-flow/internal/core/cache"
	"procurement-flow/internal/features/flows/domain"
)

const flowCacheKey = "procurement_status_flow"

// RedisFlowRepository implements ports.FlowRepository on the cache port, so
// every dashboard instance shares one copy of the registry.
type RedisFlowRepository struct {
	cache cache.Cache
}

// NewRedisFlowRepository creates a new RedisFlowRepository.
func NewRedisFlowRepository(c cache.Cache) *RedisFlowRepository {
	return &RedisFlowRepository{
		cache: c,
	}
}

// Save stores the flow without expiration; it lives until replaced.
func (r *RedisFlowRepository) Save(ctx context.Context, flow *domain.Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("failed to marshal status flow: %w", err)
	}

	if err := r.cache.Set(ctx, flowCacheKey, data, 0); err != nil {
		return fmt.Errorf("failed to save status flow: %w", err)
	}

	return nil
}

// Get retrieves the stored flow; (nil, nil) when none has been stored yet.
func (r *RedisFlowRepository) Get(ctx context.Context) (*domain.Flow, error) {
	data, err := r.cache.Get(ctx, flowCacheKey)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get status flow: %w", err)
	}

	var flow domain.Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status flow: %w", err)
	}

	return &flow, nil
}
