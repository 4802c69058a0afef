package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/hourly/service/dao"
)

// Store implements a generic afs-backed store, one JSON document per record.
type Store[K comparable, T any] struct {
	baseURL     string
	fs          afs.Service
	mu          sync.RWMutex
	keySelector func(*T) K
	less        func(a, b *T) bool
	matcher     func(*T, []*dao.Parameter) bool
}

var _ dao.Service[int, struct{}] = (*Store[int, struct{}])(nil)

// Option customises a Store
type Option[K comparable, T any] func(s *Store[K, T])

// WithLess sets List ordering
func WithLess[K comparable, T any](less func(a, b *T) bool) Option[K, T] {
	return func(s *Store[K, T]) {
		s.less = less
	}
}

// WithMatcher sets List filtering
func WithMatcher[K comparable, T any](matcher func(*T, []*dao.Parameter) bool) Option[K, T] {
	return func(s *Store[K, T]) {
		s.matcher = matcher
	}
}

// Save persists a record
func (s *Store[K, T]) Save(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.recordURL(s.keySelector(v))
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save record to %s: %w", URL, err)
	}
	return nil
}

// Load retrieves a record
func (s *Store[K, T]) Load(ctx context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.recordURL(key)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", URL, err)
	}
	ret := new(T)
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", URL, err)
	}
	return ret, nil
}

// Delete removes a record
func (s *Store[K, T]) Delete(ctx context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.recordURL(key)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", URL, err)
	}
	return nil
}

// List returns all records
func (s *Store[K, T]) List(ctx context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil || !exists {
		return []*T{}, err
	}
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	ret := make([]*T, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read record %s: %w", object.URL(), err)
		}
		record := new(T)
		if err := json.Unmarshal(data, record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", object.URL(), err)
		}
		if s.matcher != nil && !s.matcher(record, parameters) {
			continue
		}
		ret = append(ret, record)
	}
	if s.less != nil {
		sort.SliceStable(ret, func(i, j int) bool { return s.less(ret[i], ret[j]) })
	}
	return ret, nil
}

func (s *Store[K, T]) recordURL(key K) string {
	return url.Join(s.baseURL, fmt.Sprintf("%v.json", key))
}

// New creates an afs-backed store rooted at baseURL
func New[K comparable, T any](baseURL string, keySelector func(*T) K, options ...Option[K, T]) (*Store[K, T], error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	ret := &Store[K, T]{
		baseURL:     url.Normalize(baseURL, file.Scheme),
		fs:          afs.New(),
		keySelector: keySelector,
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}
