package store

import (
	"context"
	"sync"

	"github.com/viant/hourly/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps copies of entities keyed by keySelector and lists them in the
// order they were first saved.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]T
	keys        []K
	keySelector func(*T) K
	matcher     func(*T, []*dao.Parameter) bool
}

var _ dao.Service[int, struct{}] = (*MemoryStore[int, struct{}])(nil)

// NewMemoryStore creates a MemoryStore. matcher filters List results and may be nil.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, matcher func(*T, []*dao.Parameter) bool) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]T),
		keySelector: keySelector,
		matcher:     matcher,
	}
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = *v
	return nil
}

// Load returns a copy of the record.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return &v, nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	for i, candidate := range s.keys {
		if candidate == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of the stored records.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.keys))
	for _, key := range s.keys {
		v := s.records[key]
		if s.matcher != nil && !s.matcher(&v, parameters) {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}
