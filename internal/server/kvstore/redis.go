package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/sheetglance/internal/common"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis. Redis has no ordered prefix
// scan, so ScanPrefix collects matching keys with SCAN and sorts them
// client-side before fetching values with MGET.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return value, nil
}

func (s *RedisStore) ScanPrefix(ctx context.Context, prefix string) ([]Item, error) {
	var keys []string
	var cursor uint64
	match := escapeGlob(prefix) + "*"

	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan error: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget error: %w", err)
	}

	result := make([]Item, 0, len(keys))
	for i, k := range keys {
		// A key deleted between SCAN and MGET comes back nil; skip it.
		str, ok := values[i].(string)
		if !ok {
			continue
		}
		result = append(result, Item{Key: k, Value: []byte(str)})
	}
	return result, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

// escapeGlob neutralizes glob metacharacters so MATCH treats the prefix
// literally.
func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
