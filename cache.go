package cachefront

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/cachefront/codec"
	"github.com/unkn0wn-root/cachefront/compress"
	"github.com/unkn0wn-root/cachefront/store"
)

// Cache is the façade. Safe for concurrent use once Connect has returned.
type Cache struct {
	store      store.Store // nil => bypass
	prefix     string
	defaultTTL time.Duration
	comp       compress.Compressor // nil => compression disabled
	ser        codec.Serializer
	log        Logger
	logging    bool
	hooks      Hooks
	closed     atomic.Bool
}

// Enabled reports whether a store is configured (false in bypass mode).
func (c *Cache) Enabled() bool { return c.store != nil }

// Connect opens the store handle. It must complete before any other
// operation in non-bypass mode and may succeed only once.
func (c *Cache) Connect(ctx context.Context) error {
	if c.store == nil {
		return ErrNoStore
	}
	if c.closed.Load() {
		return opErr("connect", "", store.ErrClosed)
	}
	if c.store.Open() {
		return ErrAlreadyConnected
	}
	if err := c.store.Connect(ctx); err != nil {
		return opErr("connect", "", err)
	}
	c.log.Info("cache store connected", Fields{"compression": c.comp != nil, "prefix": c.prefix})
	return nil
}

// Close releases the store handle. The façade cannot reconnect afterwards.
func (c *Cache) Close(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	c.closed.Store(true)
	return c.store.Close(ctx)
}

// Set writes v under key. Null, an empty StringValue, or a JSONValue holding
// nil delete the key instead.
func (c *Cache) Set(ctx context.Context, key string, v Value, opts ...CallOption) error {
	o := collect(opts)
	k := c.Key(key, o.baseKey)
	if ok, err := c.ready("set", k); !ok {
		return err
	}

	raw, del, err := c.payload(v)
	if err != nil {
		return opErr("set", k, err)
	}
	if del {
		c.trace("set: empty value, deleting", Fields{"key": k})
		return opErr("set", k, c.store.Del(ctx, k))
	}

	stored := c.encode(k, raw)
	ttl := c.ttl(o.ttl)
	if err := c.store.Set(ctx, k, stored, ttl); err != nil {
		return opErr("set", k, err)
	}
	c.trace("set", Fields{"key": k, "bytes": len(raw), "stored": len(stored), "ttl": ttl})
	c.hooks.Payload("set", k, len(raw), len(stored))
	return nil
}

// GetString returns the value under key without deserializing it.
func (c *Cache) GetString(ctx context.Context, key string, opts ...CallOption) (string, bool, error) {
	_, raw, ok, err := c.fetch(ctx, "get_string", key, opts)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}

// fetch is the shared single-key read path: key, gate, get, decode.
// It returns the storage key for diagnostics.
func (c *Cache) fetch(ctx context.Context, op, key string, opts []CallOption) (string, []byte, bool, error) {
	k := c.Key(key, collect(opts).baseKey)
	if ok, err := c.ready(op, k); !ok {
		return k, nil, false, err
	}

	stored, ok, err := c.store.Get(ctx, k)
	if err != nil {
		return k, nil, false, opErr(op, k, err)
	}
	if !ok {
		c.trace(op+": miss", Fields{"key": k})
		return k, nil, false, nil
	}
	raw, ok := c.decode(k, stored)
	if !ok {
		return k, nil, false, nil
	}
	c.trace(op, Fields{"key": k, "bytes": len(raw), "stored": len(stored)})
	c.hooks.Payload(op, k, len(raw), len(stored))
	return k, raw, true, nil
}

// Exists reports whether key is present in the store.
func (c *Cache) Exists(ctx context.Context, key string, opts ...CallOption) (bool, error) {
	k := c.Key(key, collect(opts).baseKey)
	if ok, err := c.ready("exists", k); !ok {
		return false, err
	}
	found, err := c.store.Exists(ctx, k)
	if err != nil {
		return false, opErr("exists", k, err)
	}
	return found, nil
}

// Increment atomically adds one to the counter under key and returns the new
// value. ok is false in bypass mode.
func (c *Cache) Increment(ctx context.Context, key string, opts ...CallOption) (n int64, ok bool, err error) {
	k := c.Key(key, collect(opts).baseKey)
	if ok, err := c.ready("increment", k); !ok {
		return 0, false, err
	}
	n, err = c.store.Incr(ctx, k)
	if err != nil {
		return 0, false, opErr("increment", k, err)
	}
	c.trace("increment", Fields{"key": k, "value": n})
	return n, true, nil
}

// Expire sets an absolute deadline of store-time now + ttl on key.
// A non-positive ttl falls back to the default expiration.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration, opts ...CallOption) error {
	k := c.Key(key, collect(opts).baseKey)
	if ok, err := c.ready("expire", k); !ok {
		return err
	}
	now, err := c.store.Time(ctx)
	if err != nil {
		return opErr("expire", k, err)
	}
	at := now.Add(c.ttl(ttl))
	if err := c.store.ExpireAt(ctx, k, at); err != nil {
		return opErr("expire", k, err)
	}
	c.trace("expire", Fields{"key": k, "at": at})
	return nil
}

// Flush removes every key of the active database. Destructive; meant for
// tests and maintenance.
func (c *Cache) Flush(ctx context.Context) error {
	if ok, err := c.ready("flush", ""); !ok {
		return err
	}
	if err := c.store.FlushDB(ctx); err != nil {
		return opErr("flush", "", err)
	}
	c.log.Warn("cache database flushed", nil)
	return nil
}

// ttl applies the expiration policy: per-call, then Options.DefaultTTL
// (which New already defaulted to 10m).
func (c *Cache) ttl(perCall time.Duration) time.Duration {
	if perCall > 0 {
		return perCall
	}
	return c.defaultTTL
}
