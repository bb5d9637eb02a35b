package turnlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps the most recent turns in a bounded ring. It is the
// default when no DATABASE_URL is configured.
type InMemoryStore struct {
	mu       sync.RWMutex
	turns    []Turn
	capacity int
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &InMemoryStore{capacity: capacity}
}

func (s *InMemoryStore) Record(_ context.Context, turn Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	if len(s.turns) > s.capacity {
		s.turns = s.turns[len(s.turns)-s.capacity:]
	}
	return nil
}

func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.turns) {
		limit = len(s.turns)
	}
	out := make([]Turn, limit)
	// Newest first.
	for i := 0; i < limit; i++ {
		out[i] = s.turns[len(s.turns)-1-i]
	}
	return out, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
