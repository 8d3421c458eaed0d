package cachefront

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/unkn0wn-root/cachefront/compress"
	"github.com/unkn0wn-root/cachefront/store"
)

// newRedisCache returns a connected cache over an in-memory Redis server.
func newRedisCache(t *testing.T, mutate func(*Options)) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	opts := Options{Addr: mr.Addr()}
	if mutate != nil {
		mutate(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, mr
}

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// memStore is a map-backed store.Store for failure injection.
type memStore struct {
	mu   sync.Mutex
	m    map[string]memEntry
	open bool
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{m: make(map[string]memEntry)} }

func (s *memStore) Connect(context.Context) error { s.open = true; return nil }
func (s *memStore) Open() bool                    { return s.open }
func (s *memStore) Close(context.Context) error   { s.open = false; return nil }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key)
}

func (s *memStore) getLocked(key string) ([]byte, bool, error) {
	e, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.m[key] = memEntry{v: value, exp: exp}
	return nil
}

func (s *memStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if b, ok, _ := s.Get(ctx, k); ok {
			out[i] = b
		}
	}
	return out, nil
}

func (s *memStore) MSet(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	for k, v := range items {
		_ = s.Set(ctx, k, v, ttl)
	}
	return nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *memStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, _, _ := s.getLocked(key)
	var n int64
	if b != nil {
		v, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return 0, err
		}
		n = v
	}
	n++
	e := s.m[key]
	e.v = []byte(strconv.FormatInt(n, 10))
	s.m[key] = e
	return n, nil
}

func (s *memStore) ExpireAt(_ context.Context, key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.m[key]; ok {
		e.exp = at
		s.m[key] = e
	}
	return nil
}

func (s *memStore) FlushDB(context.Context) error {
	s.mu.Lock()
	s.m = make(map[string]memEntry)
	s.mu.Unlock()
	return nil
}

func (s *memStore) Time(context.Context) (time.Time, error) { return time.Now(), nil }

var errTransport = errors.New("connection reset by peer")

// downStore fails every data call, like a store whose server went away.
type downStore struct{ *memStore }

func (downStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errTransport }
func (downStore) Set(context.Context, string, []byte, time.Duration) error {
	return errTransport
}
func (downStore) MGet(context.Context, []string) ([][]byte, error) { return nil, errTransport }
func (downStore) MSet(context.Context, map[string][]byte, time.Duration) error {
	return errTransport
}
func (downStore) Incr(context.Context, string) (int64, error) { return 0, errTransport }
func (downStore) Time(context.Context) (time.Time, error)     { return time.Time{}, errTransport }

// poisonCompressor fails on inputs containing "poison" and otherwise
// delegates to Snappy.
type poisonCompressor struct{}

func (poisonCompressor) Compress(src []byte) ([]byte, error) {
	if bytes.Contains(src, []byte("poison")) {
		return nil, errors.New("compress: poisoned input")
	}
	return compress.Snappy{}.Compress(src)
}

func (poisonCompressor) Decompress(src []byte) ([]byte, error) {
	return compress.Snappy{}.Decompress(src)
}

func (poisonCompressor) Name() string { return "poison" }

type hookEvent struct {
	kind string
	key  string
	n    int
}

type recordingHooks struct {
	mu     sync.Mutex
	events []hookEvent
}

func (h *recordingHooks) add(e hookEvent) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *recordingHooks) count(kind string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func (h *recordingHooks) Bypassed(op string)                 { h.add(hookEvent{kind: "bypassed", key: op}) }
func (h *recordingHooks) CompressFailed(k string, _ error)   { h.add(hookEvent{kind: "compress_failed", key: k}) }
func (h *recordingHooks) DecompressFailed(k string, _ error) { h.add(hookEvent{kind: "decompress_failed", key: k}) }
func (h *recordingHooks) BatchCompressFailed(n int, _ error) {
	h.add(hookEvent{kind: "batch_compress_failed", n: n})
}
func (h *recordingHooks) BatchDecompressFailed(n int, _ error) {
	h.add(hookEvent{kind: "batch_decompress_failed", n: n})
}
func (h *recordingHooks) Payload(op, k string, raw, _ int) {
	h.add(hookEvent{kind: "payload:" + op, key: k, n: raw})
}

type logLine struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, msg string) {
	l.mu.Lock()
	l.lines = append(l.lines, logLine{level, msg})
	l.mu.Unlock()
}

func (l *recordingLogger) levelCount(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ln := range l.lines {
		if ln.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) Debug(msg string, _ Fields) { l.add("debug", msg) }
func (l *recordingLogger) Info(msg string, _ Fields)  { l.add("info", msg) }
func (l *recordingLogger) Warn(msg string, _ Fields)  { l.add("warn", msg) }
func (l *recordingLogger) Error(msg string, _ Fields) { l.add("error", msg) }
