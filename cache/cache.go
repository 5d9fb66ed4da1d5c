// Package cache stores expensive collaborator responses (AI transcriptions)
// keyed by a hash of their input.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Key hashes parts into a stable cache key.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "reel:" + hex.EncodeToString(sum[:])
}

type entry struct {
	val     []byte
	expires time.Time
}

// Memory is an in-process Cache.
type Memory struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{m: map[string]entry{}, now: time.Now}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.m, key)
		return nil, false, nil
	}
	return e.val, true, nil
}

// Set stores val. A ttl of zero never expires.
func (c *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.m[key] = e
	return nil
}
