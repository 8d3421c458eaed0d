package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := New(Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, mr
}

func TestNewRequiresAddrOrClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNoAddr) {
		t.Fatalf("expected ErrNoAddr, got %v", err)
	}
}

func TestConnectLifecycle(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s, err := New(Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatal(err)
	}
	if s.Open() {
		t.Fatalf("store should not be open before Connect")
	}
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !s.Open() {
		t.Fatalf("store should be open after Connect")
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.Open() {
		t.Fatalf("store should not be open after Close")
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestConnectUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s, err := New(Config{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(context.Background()); err == nil {
		t.Fatalf("expected ping failure against a stopped server")
	}
	if s.Open() {
		t.Fatalf("failed Connect must leave the store closed")
	}
}

func TestURLAddrSelectsDB(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s, err := New(Config{Addr: "redis://" + mr.Addr() + "/0", DB: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close(ctx)

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	mr.Select(3)
	if got, err := mr.Get("k"); err != nil || got != "v" {
		t.Fatalf("expected key in db 3, got %q err=%v", got, err)
	}
}

func TestGetSetDelExists(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("miss expected, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", []byte("payload"), time.Minute); err != nil {
		t.Fatal(err)
	}
	b, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(b) != "payload" {
		t.Fatalf("Get: b=%q ok=%v err=%v", b, ok, err)
	}
	if ok, err := s.Exists(ctx, "k"); err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.Exists(ctx, "k"); err != nil || ok {
		t.Fatalf("Exists after Del: ok=%v err=%v", ok, err)
	}
}

func TestSetTTLExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	if err := s.Set(ctx, "ttl", []byte("v"), 2*time.Second); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("ttl"); got != 2*time.Second {
		t.Fatalf("TTL = %v, want 2s", got)
	}
	mr.FastForward(3 * time.Second)
	if _, ok, _ := s.Get(ctx, "ttl"); ok {
		t.Fatalf("key should have expired")
	}
}

func TestMGetPreservesOrderAndMisses(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if err := s.MSet(ctx, map[string][]byte{"a": []byte("1"), "c": []byte("3")}, time.Minute); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	got, err := s.MGet(ctx, []string{"c", "b", "a"})
	if err != nil {
		t.Fatalf("MGet: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if string(got[0]) != "3" || got[1] != nil || string(got[2]) != "1" {
		t.Fatalf("unexpected MGet result %q", got)
	}
}

func TestMSetAppliesTTLToEveryKey(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	if err := s.MSet(ctx, map[string][]byte{"x": []byte("1"), "y": []byte("2")}, 30*time.Second); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"x", "y"} {
		if got := mr.TTL(k); got != 30*time.Second {
			t.Fatalf("TTL(%s) = %v, want 30s", k, got)
		}
	}
}

func TestIncrExpireAtFlush(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "ctr")
		if err != nil || n != want {
			t.Fatalf("Incr = %d err=%v, want %d", n, err, want)
		}
	}

	now, err := s.Time(ctx)
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if err := s.ExpireAt(ctx, "ctr", now.Add(10*time.Second)); err != nil {
		t.Fatalf("ExpireAt: %v", err)
	}
	if ttl := mr.TTL("ctr"); ttl <= 0 || ttl > 10*time.Second {
		t.Fatalf("unexpected TTL after ExpireAt: %v", ttl)
	}

	if err := s.FlushDB(ctx); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("ctr") {
		t.Fatalf("FlushDB left keys behind")
	}
}

func TestWrapsCallerClient(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s, err := New(Config{Client: rdb})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "n", []byte(strconv.Itoa(7)), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatal(err)
	}
	// store did not own the client, so it must still work
	if v, err := rdb.Get(ctx, "n").Result(); err != nil || v != "7" {
		t.Fatalf("caller client unusable after Close: v=%q err=%v", v, err)
	}
}

func TestClusterClientUsesPerKeyMSet(t *testing.T) {
	cc := goredis.NewClusterClient(&goredis.ClusterOptions{Addrs: []string{"127.0.0.1:7000"}})
	defer cc.Close()
	if !isCluster(cc) {
		t.Fatalf("cluster client not detected")
	}
	c := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:6379"})
	defer c.Close()
	if isCluster(c) {
		t.Fatalf("single-node client detected as cluster")
	}
}

func TestPerKeyMSetAppliesTTLToEveryKey(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	s.perKeyMSet = true

	items := map[string][]byte{"a": []byte("1"), "b": []byte("2"), "c": []byte("3")}
	if err := s.MSet(ctx, items, time.Minute); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	for k, v := range items {
		got, err := mr.Get(k)
		if err != nil || got != string(v) {
			t.Fatalf("%s = %q err=%v, want %q", k, got, err, v)
		}
		if ttl := mr.TTL(k); ttl != time.Minute {
			t.Fatalf("%s TTL = %v, want 1m", k, ttl)
		}
	}
}
