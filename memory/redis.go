package memory

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/artealabs/htseg"
)

// RedisStore is a Redis-backed translation memory, for batches that share a
// memory across processes. First-writer-wins is enforced with SETNX and
// entries never expire, matching the accumulation-only contract.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis memory.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "htseg:")
}

// NewRedisStore creates a Redis memory and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "htseg:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Lookup implements Memory. Backend errors surface as a miss so a flaky
// connection degrades to re-translation instead of failing the document.
func (s *RedisStore) Lookup(text, srcLang, tgtLang string) (string, bool) {
	ctx := context.Background()
	val, err := s.client.Get(ctx, s.keyPrefix+htseg.MemoryKey(text, srcLang, tgtLang)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Put implements Memory using SETNX, so an existing entry is never
// overwritten.
func (s *RedisStore) Put(text, srcLang, tgtLang, translation string) error {
	ctx := context.Background()
	key := s.keyPrefix + htseg.MemoryKey(text, srcLang, tgtLang)
	if err := s.client.SetNX(ctx, key, translation, 0).Err(); err != nil {
		return &htseg.MemoryError{Message: "redis put failed", Cause: err}
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	return s.client.Ping(context.Background()).Err()
}

// Verify RedisStore implements Memory
var _ Memory = (*RedisStore)(nil)
