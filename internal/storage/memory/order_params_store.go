package memory

import (
	"context"
	"sync"

	"utxo-dex-relay/internal/domain"
	"utxo-dex-relay/internal/storage"
)

// OrderParamsStore is an in-memory implementation of storage.OrderParamsStore.
type OrderParamsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OrderParams // keyed by event id
}

// NewOrderParamsStore creates a new in-memory order parameter store.
func NewOrderParamsStore() *OrderParamsStore {
	return &OrderParamsStore{
		data: make(map[string]*domain.OrderParams),
	}
}

// Put records the parameters for an event id. Writing an id that
// already exists is a no-op.
func (s *OrderParamsStore) Put(_ context.Context, eventID string, params *domain.OrderParams) error {
	if eventID == "" || params == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[eventID]; exists {
		return nil
	}

	// Store a copy to prevent external mutation
	paramsCopy := *params
	s.data[eventID] = &paramsCopy
	return nil
}

// Get retrieves the parameters for an event id. Returns ErrNotFound if
// the id has not been cached.
func (s *OrderParamsStore) Get(_ context.Context, eventID string) (*domain.OrderParams, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params, exists := s.data[eventID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	paramsCopy := *params
	return &paramsCopy, nil
}

// Verify interface compliance at compile time.
var _ storage.OrderParamsStore = (*OrderParamsStore)(nil)
