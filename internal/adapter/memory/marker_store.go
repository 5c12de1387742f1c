package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/dinein/internal/domain"
)

// MarkerStore is the process-local payment marker store used when Redis is
// not configured.
type MarkerStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMarkerStore() *MarkerStore {
	return &MarkerStore{seen: make(map[string]struct{})}
}

func (m *MarkerStore) Seen(ctx context.Context, intentID string, status domain.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[intentID+":"+string(status)]
	return ok, nil
}

func (m *MarkerStore) Mark(ctx context.Context, intentID string, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[intentID+":"+string(status)] = struct{}{}
	return nil
}
