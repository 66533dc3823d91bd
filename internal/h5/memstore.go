package h5

import (
	"fmt"
	"sync"
)

// MemStore is the in-memory Store. It backs tests and throwaway exports;
// nothing survives the process.
type MemStore struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	children map[string][]string // parent path → child names, creation order
}

func NewMemStore() *MemStore {
	return &MemStore{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

func (s *MemStore) GetNode(path string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[path]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	return n, nil
}

func (s *MemStore) PutNode(n *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[n.Path]; !ok && n.Path != "" {
		parent, name := splitPath(n.Path)
		s.children[parent] = append(s.children[parent], name)
	}
	s.nodes[n.Path] = n
	return nil
}

func (s *MemStore) ListChildren(path string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.nodes[path]; !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	out := make([]string, len(s.children[path]))
	copy(out, s.children[path])
	return out, nil
}

// Verify interface compliance at compile time.
var _ Store = (*MemStore)(nil)
