// Package cart keeps the per-visitor cart counter. The original site held
// the counter in browser storage; here it lives server side, keyed by a
// cart cookie, so the badge survives across devices. There is still no
// checkout: orders leave as prefilled mail.
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStorage persists one counter per cart id.
type CounterStorage interface {
	Get(ctx context.Context, cartId string) (int64, error)
	Add(ctx context.Context, cartId string, quantity int64) (int64, error)
}

// counters are abandoned carts after a month, same horizon the old
// browser-storage counter effectively had
const counterTTL = 30 * 24 * time.Hour

type RedisCounterStorage struct {
	client *redis.Client
}

func NewRedisCounterStorage(addr, password string, db int) *RedisCounterStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCounterStorage{client: rdb}
}

func (s *RedisCounterStorage) key(cartId string) string {
	return "cart_count:" + cartId
}

func (s *RedisCounterStorage) Get(ctx context.Context, cartId string) (int64, error) {
	v, err := s.client.Get(ctx, s.key(cartId)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (s *RedisCounterStorage) Add(ctx context.Context, cartId string, quantity int64) (int64, error) {
	key := s.key(cartId)
	v, err := s.client.IncrBy(ctx, key, quantity).Result()
	if err != nil {
		return 0, err
	}
	s.client.Expire(ctx, key, counterTTL)
	return v, nil
}

func (s *RedisCounterStorage) Close() error {
	return s.client.Close()
}

// MemoryCounterStorage backs the counter when no redis is configured and
// in tests. Counters reset on restart, which is acceptable for a badge.
type MemoryCounterStorage struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemoryCounterStorage() *MemoryCounterStorage {
	return &MemoryCounterStorage{counters: make(map[string]int64)}
}

func (s *MemoryCounterStorage) Get(_ context.Context, cartId string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[cartId], nil
}

func (s *MemoryCounterStorage) Add(_ context.Context, cartId string, quantity int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[cartId] += quantity
	return s.counters[cartId], nil
}
