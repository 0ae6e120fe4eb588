package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"

	"github.com/delakti/faithassembly-storefront/internal/domain"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis. The
// value under each key is the JSON-serialized line-item array, nothing
// else; the cart view is reassembled from it on every read.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the line items for a session from Redis.
func (r *CartRepository) Get(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	key := keyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}

	return items, nil
}

// Save writes the line items for a session to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	key := keyPrefix + sessionID

	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart items: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the stored cart for a session.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
