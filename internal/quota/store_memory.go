package quota

import (
	"context"
	"sync"

	"fairchain/pkg/domain"
	"fairchain/pkg/platform/sentinel"
)

// InMemoryStore keeps quota records in a map keyed by the composite
// (vessel, species) key. The mutex makes Consume atomic.
type InMemoryStore struct {
	mu     sync.RWMutex
	quotas map[domain.QuotaKey]Quota
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{quotas: make(map[domain.QuotaKey]Quota)}
}

func (s *InMemoryStore) Put(_ context.Context, q Quota) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotas[q.Key] = q
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key domain.QuotaKey) (*Quota, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.quotas[key]; ok {
		return &q, nil
	}
	return nil, nil
}

func (s *InMemoryStore) Consume(_ context.Context, key domain.QuotaKey, amount domain.Amount, now domain.Epoch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotas[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	if q.Expired(now) {
		return sentinel.ErrExpired
	}
	// used <= allocated always holds, so the subtraction cannot underflow;
	// comparing against the remainder keeps a huge amount from wrapping the
	// sum past the guard.
	if amount > q.Allocated-q.Used {
		return sentinel.ErrInsufficient
	}
	q.Used += amount
	s.quotas[key] = q
	return nil
}
