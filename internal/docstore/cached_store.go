package docstore

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore fronts an origin store with an in-process LRU so repeat reads
// of the same document skip the backend.
type CachedStore struct {
	origin Store
	cache  *lru.Cache[string, []byte]
}

const defaultCacheEntries = 64

func NewCachedStore(origin Store) *CachedStore {
	cache, err := lru.New[string, []byte](defaultCacheEntries)
	if err != nil {
		panic(err)
	}
	return &CachedStore{origin: origin, cache: cache}
}

func (s *CachedStore) Put(ctx context.Context, id string, content []byte) error {
	if s == nil || s.origin == nil {
		return fmt.Errorf("store is nil")
	}
	if err := s.origin.Put(ctx, id, content); err != nil {
		return err
	}
	s.cache.Add(id, append([]byte(nil), content...))
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) ([]byte, error) {
	if s == nil || s.origin == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if content, ok := s.cache.Get(id); ok {
		return append([]byte(nil), content...), nil
	}
	content, err := s.origin.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, append([]byte(nil), content...))
	return content, nil
}

func (s *CachedStore) List(ctx context.Context) ([]string, error) {
	if s == nil || s.origin == nil {
		return nil, fmt.Errorf("store is nil")
	}
	return s.origin.List(ctx)
}
