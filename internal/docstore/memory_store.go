package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps documents in a bounded LRU. Suited to tests and to
// deployments where regeneration is cheap.
type MemoryStore struct {
	cache *lru.Cache[string, []byte]
}

const defaultMemoryEntries = 256

func NewMemoryStore() *MemoryStore {
	cache, err := lru.New[string, []byte](defaultMemoryEntries)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) Put(_ context.Context, id string, content []byte) error {
	if s == nil || s.cache == nil {
		return fmt.Errorf("store is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("document id is required")
	}
	s.cache.Add(id, append([]byte(nil), content...))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	if s == nil || s.cache == nil {
		return nil, fmt.Errorf("store is nil")
	}
	content, ok := s.cache.Get(strings.TrimSpace(id))
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), content...), nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	if s == nil || s.cache == nil {
		return nil, fmt.Errorf("store is nil")
	}
	ids := s.cache.Keys()
	sort.Strings(ids)
	return ids, nil
}
