// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationStore remembers revoked token IDs until the token would have
// expired anyway.
//
// # Implementations
//
//   - [RedisRevocationStore]: shared by every API instance.
//   - [MemoryRevocationStore]: single process fallback when Redis is disabled.
type RevocationStore interface {
	// Revoke records jti as revoked for ttl.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti was revoked. An error means the answer
	// is unknown; callers must fail closed.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationStore keeps revocations in process memory.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke also drops entries whose tokens have expired, which bounds the map
// by the number of tokens issued within one token lifetime.
func (store *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.now()
	for id, expiresAt := range store.revoked {
		if now.After(expiresAt) {
			delete(store.revoked, id)
		}
	}

	store.revoked[jti] = now.Add(ttl)
	return nil
}

func (store *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	expiresAt, ok := store.revoked[jti]
	return ok && store.now().Before(expiresAt), nil
}
