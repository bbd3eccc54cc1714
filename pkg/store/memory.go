package store

import (
	"context"
	"sync"

	"github.com/matzehuels/stresslayout/pkg/graph"
)

// MemoryStore keeps layouts in a map. Stored values are copies, so callers may
// keep mutating the layout they saved.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]graph.Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]graph.Layout)}
}

func (s *MemoryStore) Save(ctx context.Context, l *graph.Layout) error {
	if err := requireID(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[l.ID] = clone(*l)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (graph.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layouts[id]
	if !ok {
		return graph.Layout{}, notFound(id)
	}
	return clone(l), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, id)
	return nil
}

// Len returns the number of stored layouts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layouts)
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func clone(l graph.Layout) graph.Layout {
	l.Nodes = graph.CloneNodes(l.Nodes)
	l.Targets = append([]graph.Target(nil), l.Targets...)
	l.Trace = append([]float64(nil), l.Trace...)
	return l
}

var _ Store = (*MemoryStore)(nil)
