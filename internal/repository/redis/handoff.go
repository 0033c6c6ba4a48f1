package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
)

const (
	orderSummaryKeyPrefix = "order:summary:"
	orderTotalKeyPrefix   = "order:total:"
)

// HandoffRepository implements repository.HandoffRepository using Redis,
// holding the rendered order summary text and total string read back by the
// confirmation view.
type HandoffRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHandoffRepository creates a new Redis-backed hand-off repository.
func NewHandoffRepository(client *redis.Client, ttl time.Duration) *HandoffRepository {
	return &HandoffRepository{
		client: client,
		ttl:    ttl,
	}
}

// SaveOrder writes both hand-off keys atomically.
func (r *HandoffRepository) SaveOrder(ctx context.Context, sessionID, summary, total string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, orderSummaryKeyPrefix+sessionID, summary, r.ttl)
	pipe.Set(ctx, orderTotalKeyPrefix+sessionID, total, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set order handoff: %w", err)
	}

	return nil
}

// GetOrder retrieves the summary and total for a session.
func (r *HandoffRepository) GetOrder(ctx context.Context, sessionID string) (string, string, error) {
	summary, err := r.client.Get(ctx, orderSummaryKeyPrefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", "", apperrors.NotFound("order", sessionID)
		}
		return "", "", fmt.Errorf("redis get order summary: %w", err)
	}

	total, err := r.client.Get(ctx, orderTotalKeyPrefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", "", apperrors.NotFound("order", sessionID)
		}
		return "", "", fmt.Errorf("redis get order total: %w", err)
	}

	return summary, total, nil
}
