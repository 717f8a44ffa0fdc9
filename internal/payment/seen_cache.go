package payment

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCache remembers recently applied transaction hashes so the
// reconciler can skip redundant confirmation-check calls within the
// TTL window. It is a network-call-avoidance optimization only;
// correctness rests solely on the durable processed ledger.
type SeenCache interface {
	Seen(ctx context.Context, txHash string) bool
	Mark(ctx context.Context, txHash string)
}

type redisSeenCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (c *redisSeenCache) Seen(ctx context.Context, txHash string) bool {
	n, err := c.client.Exists(ctx, c.prefix+":"+txHash).Result()
	if err != nil {
		// Cache miss on error: the ledger still guards correctness.
		return false
	}
	return n > 0
}

func (c *redisSeenCache) Mark(ctx context.Context, txHash string) {
	_ = c.client.Set(ctx, c.prefix+":"+txHash, "1", c.ttl).Err()
}

type memorySeenCache struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemorySeenCache(ttl time.Duration) *memorySeenCache {
	now := time.Now()
	return &memorySeenCache{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (c *memorySeenCache) Seen(_ context.Context, txHash string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	exp, ok := c.seen[txHash]
	return ok && exp.After(now)
}

func (c *memorySeenCache) Mark(_ context.Context, txHash string) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen[txHash] = now.Add(c.ttl)
	if now.After(c.nextGC) {
		for hash, exp := range c.seen {
			if exp.Before(now) {
				delete(c.seen, hash)
			}
		}
		c.nextGC = now.Add(c.ttl)
	}
}

// NewSeenCache builds a Redis-backed cache and falls back to
// in-memory when Redis is unreachable.
func NewSeenCache(addr, pass string, db int, ttl time.Duration) (SeenCache, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if addr == "" {
		return newMemorySeenCache(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemorySeenCache(ttl), err
	}

	return &redisSeenCache{client: client, prefix: "ton:tx", ttl: ttl}, nil
}
