// Package events tracks webhook deliveries that were already handled, so
// Meta's redeliveries do not run the pipeline twice for one message.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

// ProcessedStore records message ids that were already handled.
type ProcessedStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProcessedStore creates a store on the given redis client. A zero ttl
// falls back to 24h, which outlives Meta's redelivery window.
func NewProcessedStore(client *redis.Client, ttl time.Duration) *ProcessedStore {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ProcessedStore{client: client, ttl: ttl}
}

// MarkProcessed claims a message id for the provider. It returns true when
// this is the first time the id is seen, false on a redelivery.
func (s *ProcessedStore) MarkProcessed(ctx context.Context, provider, messageID string) (bool, error) {
	key := fmt.Sprintf("processed:%s:%s", provider, messageID)
	ok, err := s.client.SetNX(ctx, key, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ok, nil
}
