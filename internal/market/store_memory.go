package market

import (
	"context"
	"sync"

	"fairchain/pkg/domain"
)

// InMemoryCertificationStore keeps certifications in a map keyed by catch id.
type InMemoryCertificationStore struct {
	mu    sync.RWMutex
	certs map[domain.CatchID]Certification
}

func NewInMemoryCertificationStore() *InMemoryCertificationStore {
	return &InMemoryCertificationStore{certs: make(map[domain.CatchID]Certification)}
}

func (s *InMemoryCertificationStore) Put(_ context.Context, cert Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certs[cert.CatchID] = cert
	return nil
}

func (s *InMemoryCertificationStore) Get(_ context.Context, catchID domain.CatchID) (*Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cert, ok := s.certs[catchID]; ok {
		return &cert, nil
	}
	return nil, nil
}

// InMemoryBlacklistStore keeps the deny-list in a map.
type InMemoryBlacklistStore struct {
	mu      sync.RWMutex
	entries map[domain.Principal]BlacklistEntry
}

func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	return &InMemoryBlacklistStore{entries: make(map[domain.Principal]BlacklistEntry)}
}

func (s *InMemoryBlacklistStore) Add(_ context.Context, entry BlacklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Entity] = entry
	return nil
}

func (s *InMemoryBlacklistStore) Remove(_ context.Context, entity domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, entity)
	return nil
}

func (s *InMemoryBlacklistStore) Find(_ context.Context, entity domain.Principal) (*BlacklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.entries[entity]; ok {
		return &entry, nil
	}
	return nil, nil
}
