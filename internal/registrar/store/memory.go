package store

import (
	"context"
	"sync"

	"leasehold/internal/registrar/models"
	"leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

// InMemory keeps the lease and token tables in process. The default store
// for standalone mode and tests.
type InMemory struct {
	mu     sync.RWMutex
	leases map[domain.NameID]models.Lease
	tokens map[domain.NameID]domain.TokenID
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		leases: make(map[domain.NameID]models.Lease),
		tokens: make(map[domain.NameID]domain.TokenID),
	}
}

func (s *InMemory) GetLease(_ context.Context, node domain.NameID) (models.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lease, ok := s.leases[node]
	if !ok {
		return models.Lease{}, sentinel.ErrNotFound
	}
	return lease, nil
}

func (s *InMemory) PutLease(_ context.Context, lease models.Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leases[lease.NameID] = lease
	return nil
}

func (s *InMemory) TokenID(_ context.Context, node domain.NameID) (domain.TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[node]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return id, nil
}

func (s *InMemory) BindTokenID(_ context.Context, node domain.NameID, id domain.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[node] = id
	return nil
}
