package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blocklist records revoked token IDs until the tokens would have expired.
type Blocklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryBlocklist keeps revoked token IDs in process memory. Revocations are
// lost on restart and not shared between replicas.
type MemoryBlocklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryBlocklist creates an empty in-memory blocklist
func NewMemoryBlocklist() *MemoryBlocklist {
	return &MemoryBlocklist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks tokenID as revoked until expiresAt
func (b *MemoryBlocklist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, exp := range b.revoked {
		if !exp.After(now) {
			delete(b.revoked, id)
		}
	}
	if expiresAt.After(now) {
		b.revoked[tokenID] = expiresAt
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not expired yet
func (b *MemoryBlocklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return exp.After(b.now()), nil
}

// RedisBlocklist stores revoked token IDs as expiring Redis keys
type RedisBlocklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlocklist creates a blocklist on top of an existing client
func NewRedisBlocklist(client *redis.Client, prefix string) *RedisBlocklist {
	return &RedisBlocklist{client: client, prefix: prefix}
}

// NewRedisClient connects to redis with short timeouts
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
}

// Revoke marks tokenID as revoked until expiresAt
func (b *RedisBlocklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.prefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether tokenID is currently revoked
func (b *RedisBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Healthy verifies redis connectivity
func (b *RedisBlocklist) Healthy(ctx context.Context) bool {
	if b == nil || b.client == nil {
		return false
	}
	return b.client.Ping(ctx).Err() == nil
}
