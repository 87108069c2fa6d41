package blobstore

import (
	"context"
	"slices"

	"github.com/hupe1980/segmerge/internal/cache"
	"github.com/hupe1980/segmerge/internal/resource"
)

// CachingStore wraps a Store and keeps recently read blobs in memory.
type CachingStore struct {
	inner Store
	cache *cache.LRU[string]
}

// NewCachingStore creates a CachingStore holding at most capacity bytes.
// rc may be nil.
func NewCachingStore(inner Store, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU[string](capacity, rc),
	}
}

// Get serves from the cache or loads and caches the blob.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return slices.Clone(data), nil
	}

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	s.cache.Set(name, slices.Clone(data))

	return data, nil
}

// Put writes through and drops the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob and its cached copy.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List is passed through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}
