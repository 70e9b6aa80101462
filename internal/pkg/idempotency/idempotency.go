// Package idempotency deduplicates client retries keyed by an
// Idempotency-Key header.
package idempotency

import (
	"context"
	"strings"
	"time"
)

const (
	pendingMarker = "pending"
	donePrefix    = "done:"
)

// Entry is the state previously recorded under a key.
type Entry struct {
	Pending bool
	Value   string
}

// Store reserves keys before work starts and records the result afterwards.
type Store interface {
	// Reserve claims key. ok is false when the key already exists, in which
	// case the existing entry is returned.
	Reserve(ctx context.Context, key string) (existing Entry, ok bool, err error)
	Complete(ctx context.Context, key, value string) error
	// Release forgets a reservation so the client can retry.
	Release(ctx context.Context, key string) error
}

func decode(raw string) Entry {
	if strings.HasPrefix(raw, donePrefix) {
		return Entry{Value: strings.TrimPrefix(raw, donePrefix)}
	}
	return Entry{Pending: true}
}

func encode(value string) string { return donePrefix + value }

// ttlOrDefault guards against a zero ttl silently making keys permanent.
func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 24 * time.Hour
	}
	return ttl
}
