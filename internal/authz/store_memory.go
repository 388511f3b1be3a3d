package authz

import (
	"context"
	"sync"

	"fairchain/pkg/domain"
)

// InMemoryStore keeps role sets as maps; membership has no expiry.
type InMemoryStore struct {
	mu    sync.RWMutex
	roles map[Role]map[domain.Principal]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{roles: make(map[Role]map[domain.Principal]struct{})}
}

func (s *InMemoryStore) Grant(_ context.Context, role Role, principal domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.roles[role]
	if !ok {
		members = make(map[domain.Principal]struct{})
		s.roles[role] = members
	}
	members[principal] = struct{}{}
	return nil
}

func (s *InMemoryStore) Has(_ context.Context, role Role, principal domain.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roles[role][principal]
	return ok, nil
}
