package catchlog

import (
	"context"
	"sync"

	"fairchain/pkg/domain"
	"fairchain/pkg/platform/sentinel"
)

// InMemoryStore keeps catches in a map with a monotonic id counter.
type InMemoryStore struct {
	mu      sync.RWMutex
	catches map[domain.CatchID]Catch
	nextID  domain.CatchID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		catches: make(map[domain.CatchID]Catch),
		nextID:  1,
	}
}

func (s *InMemoryStore) Create(_ context.Context, c Catch) (domain.CatchID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	s.catches[c.ID] = c
	return c.ID, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.CatchID) (*Catch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.catches[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *InMemoryStore) MarkVerified(_ context.Context, id domain.CatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.catches[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Verified = true
	s.catches[id] = c
	return nil
}
