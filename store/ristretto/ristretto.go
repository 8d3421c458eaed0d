// Package ristretto is an in-process store for single-process deployments and
// local development. Select it with the address "memory://".
//
// Entries live in a dgraph-io/ristretto cache, so under memory pressure the
// admission policy may drop writes; treat it as a cache, not a database.
package ristretto

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/cachefront/store"
)

// ErrRejected reports a write dropped by ristretto (contention or admission).
var ErrRejected = errors.New("ristretto store: write rejected")

type Config struct {
	NumCounters int64 // 0 => 1e6
	MaxCost     int64 // bytes; 0 => 256 MiB
	BufferItems int64 // 0 => 64
	Metrics     bool
}

type Store struct {
	cfg  Config
	c    *rc.Cache
	open atomic.Bool

	// serializes read-modify-write sequences (Incr, ExpireAt)
	rmw sync.Mutex
}

var _ store.Store = (*Store)(nil)

func New(cfg Config) *Store {
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 1e6
	}
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 256 << 20
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	return &Store{cfg: cfg}
}

func (s *Store) Connect(context.Context) error {
	if s.open.Load() {
		return nil
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: s.cfg.NumCounters,
		MaxCost:     s.cfg.MaxCost,
		BufferItems: s.cfg.BufferItems,
		Metrics:     s.cfg.Metrics,
	})
	if err != nil {
		return err
	}
	s.c = c
	s.open.Store(true)
	return nil
}

func (s *Store) Open() bool { return s.open.Load() }

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if !s.open.Load() {
		return nil, false, store.ErrClosed
	}
	b, ok := s.get(key)
	return b, ok, nil
}

func (s *Store) get(key string) ([]byte, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		s.c.Del(key)
		return nil, false
	}
	return b, true
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.open.Load() {
		return store.ErrClosed
	}
	if !s.set(key, value, ttl) {
		return ErrRejected
	}
	s.c.Wait()
	return nil
}

func (s *Store) set(key string, value []byte, ttl time.Duration) bool {
	if ttl < 0 {
		ttl = 0
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return s.c.SetWithTTL(key, cp, int64(len(cp))+1, ttl)
}

func (s *Store) MGet(_ context.Context, keys []string) ([][]byte, error) {
	if !s.open.Load() {
		return nil, store.ErrClosed
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if b, ok := s.get(k); ok {
			out[i] = b
		}
	}
	return out, nil
}

func (s *Store) MSet(_ context.Context, items map[string][]byte, ttl time.Duration) error {
	if !s.open.Load() {
		return store.ErrClosed
	}
	rejected := false
	for k, v := range items {
		if !s.set(k, v, ttl) {
			rejected = true
		}
	}
	s.c.Wait()
	if rejected {
		return ErrRejected
	}
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	if !s.open.Load() {
		return store.ErrClosed
	}
	s.c.Del(key)
	return nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	if !s.open.Load() {
		return false, store.ErrClosed
	}
	_, ok := s.get(key)
	return ok, nil
}

// Incr keeps the remaining TTL of an existing counter, like Redis INCR.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	if !s.open.Load() {
		return 0, store.ErrClosed
	}
	s.rmw.Lock()
	defer s.rmw.Unlock()

	var n int64
	var ttl time.Duration
	if b, ok := s.get(key); ok {
		cur, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return 0, errors.New("ristretto store: value is not an integer")
		}
		n = cur
		ttl, _ = s.c.GetTTL(key)
	}
	n++
	if !s.set(key, []byte(strconv.FormatInt(n, 10)), ttl) {
		return 0, ErrRejected
	}
	s.c.Wait()
	return n, nil
}

func (s *Store) ExpireAt(_ context.Context, key string, at time.Time) error {
	if !s.open.Load() {
		return store.ErrClosed
	}
	s.rmw.Lock()
	defer s.rmw.Unlock()

	b, ok := s.get(key)
	if !ok {
		return nil
	}
	ttl := time.Until(at)
	if ttl <= 0 {
		s.c.Del(key)
		return nil
	}
	if !s.set(key, b, ttl) {
		return ErrRejected
	}
	s.c.Wait()
	return nil
}

func (s *Store) FlushDB(context.Context) error {
	if !s.open.Load() {
		return store.ErrClosed
	}
	s.c.Clear()
	return nil
}

func (s *Store) Time(context.Context) (time.Time, error) { return time.Now(), nil }

func (s *Store) Close(context.Context) error {
	if !s.open.Swap(false) {
		return nil
	}
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto counters when Config.Metrics is set.
func (s *Store) Metrics() *rc.Metrics {
	if s.c == nil {
		return nil
	}
	return s.c.Metrics
}
