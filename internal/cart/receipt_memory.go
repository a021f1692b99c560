package cart

import (
	"context"
	"sync"
)

type MemReceiptStore struct {
	mu         sync.RWMutex
	byID       map[string]Receipt
	byCustomer map[string][]string
}

func NewMemReceiptStore() *MemReceiptStore {
	return &MemReceiptStore{
		byID:       map[string]Receipt{},
		byCustomer: map[string][]string{},
	}
}

func (s *MemReceiptStore) Save(_ context.Context, r Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID] = r
	s.byCustomer[r.CustomerID] = append(s.byCustomer[r.CustomerID], r.ID)
	return nil
}

func (s *MemReceiptStore) Get(_ context.Context, customerID, id string) (Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok || r.CustomerID != customerID {
		return Receipt{}, ErrReceiptNotFound
	}
	return r, nil
}

func (s *MemReceiptStore) List(_ context.Context, customerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byCustomer[customerID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *MemReceiptStore) Ping(context.Context) error { return nil }
