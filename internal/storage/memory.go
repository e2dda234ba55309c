package storage

import (
	"context"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore keeps documents in a non-expiring go-cache instance. It is the
// default backend and the fixture the tests run on.
type memoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore() Store {
	return &memoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v.([]byte), nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	// copy so callers can't mutate the stored document afterwards
	buf := make([]byte, len(value))
	copy(buf, value)
	s.cache.Set(key, buf, gocache.NoExpiration)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *memoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *memoryStore) Close() error {
	s.cache.Flush()
	return nil
}
