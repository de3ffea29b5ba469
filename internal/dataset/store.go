package dataset

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chartdeck/internal/errors"
)

// Store keeps uploaded datasets addressable by a handle. Handles are scoped
// to the uploading identity: Get with another owner fails as not found.
type Store interface {
	Put(ctx context.Context, ownerID uint, ds *Dataset) (string, error)
	Get(ctx context.Context, ownerID uint, id string) (*Dataset, error)
}

func key(ownerID uint, id string) string {
	return fmt.Sprintf("dataset:%d:%s", ownerID, id)
}

// RedisStore stores datasets as JSON with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, ownerID uint, ds *Dataset) (string, error) {
	payload, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}
	id := uuid.NewString()
	if err := s.client.Set(ctx, key(ownerID, id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store dataset: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, ownerID uint, id string) (*Dataset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.ErrDatasetNotFound
	}
	payload, err := s.client.Get(ctx, key(ownerID, id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

type memoryEntry struct {
	ds      *Dataset
	expires time.Time
}

// MemoryStore keeps datasets in process. It is used when Redis is not
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, ownerID uint, ds *Dataset) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	s.entries[key(ownerID, id)] = memoryEntry{ds: ds, expires: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, ownerID uint, id string) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key(ownerID, id)]
	if !ok || !s.now().Before(entry.expires) {
		return nil, errors.ErrDatasetNotFound
	}
	return entry.ds, nil
}

func (s *MemoryStore) evictLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
}
