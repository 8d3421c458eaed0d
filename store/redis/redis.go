// Package redis is the go-redis backed store used when the façade is given a
// network address.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cachefront/store"
)

var ErrNoAddr = errors.New("redis store: no address and no client")

type Config struct {
	// Addr is host:port or a redis:// / rediss:// URL. Ignored when Client is set.
	Addr string
	// DB selects the logical database. Overrides the database in an URL when > 0.
	DB int

	// Client is an optional caller-built client (cluster, sentinel, custom TLS).
	// A *ClusterClient cannot run MSET across hash slots inside MULTI/EXEC
	// (CROSSSLOT), so MSet on such a client sends a plain pipeline of SETs:
	// every key still gets the TTL but the batch is not atomic.
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns Client
}

type Redis struct {
	cfg Config

	mu          sync.Mutex
	rdb         goredis.UniversalClient
	closeClient bool
	perKeyMSet  bool // cluster client: MSet as pipelined SETs
	open        atomic.Bool
}

var _ store.Store = (*Redis)(nil)

// New validates cfg but does not dial; call Connect.
func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil && cfg.Addr == "" {
		return nil, ErrNoAddr
	}
	return &Redis{cfg: cfg}, nil
}

// Connect builds the client (unless one was supplied) and verifies the server
// answers PING. Calling Connect on an open store is a no-op.
func (r *Redis) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open.Load() {
		return nil
	}

	rdb, owned := r.cfg.Client, r.cfg.CloseClient
	if rdb == nil {
		opt, err := clientOptions(r.cfg.Addr, r.cfg.DB)
		if err != nil {
			return err
		}
		rdb, owned = goredis.NewClient(opt), true
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		if r.cfg.Client == nil {
			_ = rdb.Close()
		}
		return fmt.Errorf("redis store: ping: %w", err)
	}
	r.rdb, r.closeClient = rdb, owned
	r.perKeyMSet = isCluster(rdb)
	r.open.Store(true)
	return nil
}

func clientOptions(addr string, db int) (*goredis.Options, error) {
	if strings.Contains(addr, "://") {
		opt, err := goredis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("redis store: parse %q: %w", addr, err)
		}
		if db > 0 {
			opt.DB = db
		}
		return opt, nil
	}
	return &goredis.Options{Addr: addr, DB: db}, nil
}

func isCluster(c goredis.UniversalClient) bool {
	_, ok := c.(*goredis.ClusterClient)
	return ok
}

func (r *Redis) Open() bool { return r.open.Load() }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	if b == nil {
		b = []byte{}
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0 // treat negative TTLs as "no expiry"
	}
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(keys))
	for i, v := range vals {
		switch vv := v.(type) {
		case nil:
		case string:
			out[i] = []byte(vv)
			if out[i] == nil {
				out[i] = []byte{}
			}
		case []byte:
			out[i] = vv
		default:
			return nil, fmt.Errorf("redis store: unexpected MGET element %T at %s", vv, keys[i])
		}
	}
	return out, nil
}

// MSet writes all pairs with one MSET inside MULTI/EXEC and attaches the TTL
// to every key in the same transaction. Cluster clients get one SET per key
// in a non-transactional pipeline instead.
func (r *Redis) MSet(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	if len(items) == 0 {
		return nil
	}
	if ttl < 0 {
		ttl = 0
	}
	if r.perKeyMSet {
		_, err := r.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
			for k, v := range items {
				p.Set(ctx, k, v, ttl)
			}
			return nil
		})
		return err
	}
	pairs := make([]any, 0, 2*len(items))
	for k, v := range items {
		pairs = append(pairs, k, v)
	}
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.MSet(ctx, pairs...)
		if ttl > 0 {
			for k := range items {
				p.Expire(ctx, k, ttl)
			}
		}
		return nil
	})
	return err
}

func (r *Redis) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	return r.rdb.Incr(ctx, key).Result()
}

func (r *Redis) ExpireAt(ctx context.Context, key string, at time.Time) error {
	return r.rdb.ExpireAt(ctx, key, at).Err()
}

func (r *Redis) FlushDB(ctx context.Context) error {
	return r.rdb.FlushDB(ctx).Err()
}

func (r *Redis) Time(ctx context.Context) (time.Time, error) {
	return r.rdb.Time(ctx).Result()
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open.Swap(false) {
		return nil
	}
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
