// Package cache holds the time-stamped entry store used to memoize upstream
// bestseller responses.
package cache

import (
	"context"
	"strings"
	"time"
)

// Entry is a cached payload together with the time it was fetched.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Payload   []byte    `json:"payload"`
}

// FreshAt reports whether the entry is younger than ttl at now.
func (e *Entry) FreshAt(now time.Time, ttl time.Duration) bool {
	return e != nil && now.Sub(e.Timestamp) < ttl
}

// Store persists entries by key. Get returns nil, nil on a miss. Stores
// never evict on their own; freshness is decided by the caller.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry Entry) error
}

// Clock is the time source used to stamp and age entries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

const bookKeyPrefix = "book-"

// BookKey is the cache key for a single book looked up by ISBN.
func BookKey(isbn string) string {
	return bookKeyPrefix + isbn
}

// IsBookKey reports whether key is in the single-book part of the keyspace.
// List names share the keyspace and must not match.
func IsBookKey(key string) bool {
	return strings.HasPrefix(key, bookKeyPrefix)
}
