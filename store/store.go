// Package store defines the key-value store the cache façade talks to.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the bytes previously passed to Set for a key. Expiration is entirely the
// store's business; the façade only passes TTLs and absolute deadlines through.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a store that was closed.
var ErrClosed = errors.New("store: closed")

// Store is the minimal operation set consumed by the façade.
// Must be safe for concurrent use once Connect has returned.
type Store interface {
	// Connect opens the handle. Calling any other method before Connect
	// succeeds is a programming error; the façade checks Open first.
	Connect(ctx context.Context) error
	// Open reports whether Connect completed and Close has not been called.
	Open() bool

	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// MGet returns one element per key in request order; nil marks a miss.
	// Hits are never nil (an empty value is returned as an empty slice).
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	// MSet writes all items in a single call, each with the given ttl.
	MSet(ctx context.Context, items map[string][]byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Incr atomically increments the integer at key by one and returns the
	// new value. Missing keys start at 0.
	Incr(ctx context.Context, key string) (int64, error)
	// ExpireAt sets an absolute expiration deadline on key.
	ExpireAt(ctx context.Context, key string, at time.Time) error
	// FlushDB removes every key of the active namespace.
	FlushDB(ctx context.Context) error
	// Time returns the store's notion of now.
	Time(ctx context.Context) (time.Time, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
