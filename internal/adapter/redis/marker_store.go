package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/redis/go-redis/v9"
)

const DefaultMarkerTTL = 24 * time.Hour

// MarkerStore remembers applied payment callbacks so that a replayed
// callback is not processed twice.
type MarkerStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ interfaces.PaymentMarkerStore = (*MarkerStore)(nil)

func NewMarkerStore(client *redis.Client, ttl time.Duration) *MarkerStore {
	return &MarkerStore{client: client, ttl: ttl}
}

func MarkerKey(intentID string, status domain.PaymentStatus) string {
	return "payment:" + intentID + ":" + string(status)
}

func (s *MarkerStore) Seen(ctx context.Context, intentID string, status domain.PaymentStatus) (bool, error) {
	n, err := s.client.Exists(ctx, MarkerKey(intentID, status)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check payment marker: %w", err)
	}
	return n > 0, nil
}

func (s *MarkerStore) Mark(ctx context.Context, intentID string, status domain.PaymentStatus) error {
	if err := s.client.Set(ctx, MarkerKey(intentID, status), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set payment marker: %w", err)
	}
	return nil
}
