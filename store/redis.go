// Package store provides durable StateStore backends for the Jonah engine.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	jonah "github.com/hollowcoast/jonah-engine-go"
)

// RedisStateStore implements jonah.StateStore on Redis. Keys are namespaced
// as "{prefix}:{hashedVisitor}:{key}" for KV and
// "{prefix}:{hashedVisitor}:list:{key}" for lists. Visitor identifiers are
// hashed before they touch the wire, so the backend never stores raw ids.
type RedisStateStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

var _ jonah.StateStore = (*RedisStateStore)(nil)

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "jonah"
	TTL    time.Duration // TTL for KV entries, 0 = keep forever
}

// NewRedisStateStore wraps a go-redis client (Client, ClusterClient or Ring).
func NewRedisStateStore(client redis.Cmdable, config ...RedisStoreConfig) *RedisStateStore {
	cfg := RedisStoreConfig{Prefix: "jonah"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "jonah"
	}
	return &RedisStateStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

// hashNamespace keeps visitor ids out of the backend.
func hashNamespace(namespace string) string {
	sum := sha256.Sum256([]byte(namespace))
	return hex.EncodeToString(sum[:8])
}

func (r *RedisStateStore) kvKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, hashNamespace(namespace), key)
}

func (r *RedisStateStore) listKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:list:%s", r.prefix, hashNamespace(namespace), key)
}

func (r *RedisStateStore) Get(namespace, key string) (string, error) {
	val, err := r.client.Get(r.ctx, r.kvKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *RedisStateStore) Set(namespace, key, value string) error {
	return r.client.Set(r.ctx, r.kvKey(namespace, key), value, r.ttl).Err()
}

func (r *RedisStateStore) Delete(namespace, key string) error {
	return r.client.Del(r.ctx, r.kvKey(namespace, key)).Err()
}

func (r *RedisStateStore) ListKeys(namespace string) ([]string, error) {
	pattern := fmt.Sprintf("%s:%s:*", r.prefix, hashNamespace(namespace))
	keys, err := r.client.Keys(r.ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	prefixLen := len(fmt.Sprintf("%s:%s:", r.prefix, hashNamespace(namespace)))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) > prefixLen {
			result = append(result, k[prefixLen:])
		}
	}
	return result, nil
}

func (r *RedisStateStore) Append(namespace, key, value string) error {
	return r.client.RPush(r.ctx, r.listKey(namespace, key), value).Err()
}

func (r *RedisStateStore) GetList(namespace, key string, limit, offset int) ([]string, error) {
	start := int64(offset)
	stop := int64(-1)
	if limit > 0 {
		stop = start + int64(limit) - 1
	}
	items, err := r.client.LRange(r.ctx, r.listKey(namespace, key), start, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, err
	}
	return items, nil
}

func (r *RedisStateStore) TrimList(namespace, key string, maxSize int) error {
	return r.client.LTrim(r.ctx, r.listKey(namespace, key), int64(-maxSize), -1).Err()
}

func (r *RedisStateStore) ClearList(namespace, key string) error {
	return r.client.Del(r.ctx, r.listKey(namespace, key)).Err()
}

func (r *RedisStateStore) ListLength(namespace, key string) (int, error) {
	n, err := r.client.LLen(r.ctx, r.listKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return int(n), nil
}
