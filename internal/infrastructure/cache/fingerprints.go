package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Sheet fingerprint stores. The reconciler skips a sheet whose content
// fingerprint matches the stored one, so incremental passes touch only what
// changed since the last run.

const fingerprintKeyPrefix = "shoestock:sheetfp"

func fingerprintKey(doc, sheet string) string {
	return fmt.Sprintf("%s:%s:%s", fingerprintKeyPrefix, doc, sheet)
}

// RedisFingerprints stores sheet fingerprints in Redis, surviving restarts
// and shared between hosts.
type RedisFingerprints struct {
	client *redis.Client
}

// NewRedisFingerprints creates a Redis-backed store.
func NewRedisFingerprints(client *redis.Client) *RedisFingerprints {
	return &RedisFingerprints{client: client}
}

// Fingerprint returns the stored fingerprint, empty when unknown.
func (c *RedisFingerprints) Fingerprint(ctx context.Context, doc, sheet string) (string, error) {
	val, err := c.client.Get(ctx, fingerprintKey(doc, sheet)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get sheet fingerprint: %w", err)
	}
	return val, nil
}

// SetFingerprint stores a fingerprint without expiry. Entries are tiny and
// overwritten in place; stale documents are rare enough to clean by hand.
func (c *RedisFingerprints) SetFingerprint(ctx context.Context, doc, sheet, fingerprint string) error {
	if err := c.client.Set(ctx, fingerprintKey(doc, sheet), fingerprint, 0).Err(); err != nil {
		return fmt.Errorf("set sheet fingerprint: %w", err)
	}
	return nil
}

// MemoryFingerprints keeps fingerprints in process memory. Used when no
// Redis is configured; every pass then starts cold.
type MemoryFingerprints struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryFingerprints creates an empty in-memory store.
func NewMemoryFingerprints() *MemoryFingerprints {
	return &MemoryFingerprints{entries: make(map[string]string)}
}

// Fingerprint returns the stored fingerprint, empty when unknown.
func (c *MemoryFingerprints) Fingerprint(_ context.Context, doc, sheet string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[fingerprintKey(doc, sheet)], nil
}

// SetFingerprint stores a fingerprint.
func (c *MemoryFingerprints) SetFingerprint(_ context.Context, doc, sheet, fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprintKey(doc, sheet)] = fingerprint
	return nil
}
