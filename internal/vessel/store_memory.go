package vessel

import (
	"context"
	"sync"

	"fairchain/pkg/domain"
	"fairchain/pkg/platform/sentinel"
)

// InMemoryStore keeps vessels in a map with a monotonic id counter.
type InMemoryStore struct {
	mu      sync.RWMutex
	vessels map[domain.VesselID]Vessel
	nextID  domain.VesselID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		vessels: make(map[domain.VesselID]Vessel),
		nextID:  1,
	}
}

func (s *InMemoryStore) Create(_ context.Context, v Vessel) (domain.VesselID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.nextID
	s.nextID++
	s.vessels[v.ID] = v
	return v.ID, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.VesselID) (*Vessel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.vessels[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (s *InMemoryStore) SetActive(_ context.Context, id domain.VesselID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vessels[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	v.Active = active
	s.vessels[id] = v
	return nil
}
