package cache

import (
	"context"
	"time"
)

// PageCache is a key-value store with per-key TTL used to absorb read load on
// rendered feed pages. Entries are disposable: a lost or raced write only
// costs a recompute, so implementations need no locking beyond their own
// internal consistency.
type PageCache interface {
	// Get returns the stored value and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry.
	Clear(ctx context.Context) error
}
