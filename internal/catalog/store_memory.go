package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[int64]Product
}

func NewMemStore(seed ...Product) *MemStore {
	s := &MemStore{m: make(map[int64]Product, len(seed))}
	for _, p := range seed {
		s.m[p.Codigo] = p
	}
	return s
}

// NewStore returns a memory store with a small demo catalog.
func NewStore() *MemStore {
	return NewMemStore(
		Product{Codigo: 1, Descricao: "Teclado"},
		Product{Codigo: 2, Descricao: "Mouse"},
		Product{Codigo: 3, Descricao: "Monitor"},
	)
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) ListSortedByCode(context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (s *MemStore) Get(_ context.Context, codigo int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[codigo]
	return p, ok, nil
}
