// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/cachefront"
//	asynchook "github.com/unkn0wn-root/cachefront/hooks/async"
//	sloghook "github.com/unkn0wn-root/cachefront/hooks/slog"
//
// )
//
//	raw := sloghook.New(slog.Default(), sloghook.Options{
//	    PayloadEvery: 100, // sample payload logs: ~every 100th read/write
//	    BypassEvery:  1,   // log every bypassed call
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := cachefront.New(cachefront.Options{
//	    Addr:      "localhost:6379",
//	    KeyPrefix: "app:prod",
//	    Hooks:     hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/cachefront"
)

// Hooks forwards events to inner on a bounded queue drained by worker
// goroutines. Events are dropped when the queue is full.
type Hooks struct {
	inner   cachefront.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
}

var _ cachefront.Hooks = (*Hooks)(nil)

func New(inner cachefront.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = cachefront.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events reported after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped returns the number of events discarded because the queue was full
// or the hooks were closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	defer func() {
		// send on a queue closed concurrently with this call
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) Bypassed(op string)                 { h.try(func() { h.inner.Bypassed(op) }) }
func (h *Hooks) CompressFailed(k string, err error) { h.try(func() { h.inner.CompressFailed(k, err) }) }
func (h *Hooks) DecompressFailed(k string, err error) {
	h.try(func() { h.inner.DecompressFailed(k, err) })
}
func (h *Hooks) BatchCompressFailed(n int, err error) {
	h.try(func() { h.inner.BatchCompressFailed(n, err) })
}
func (h *Hooks) BatchDecompressFailed(n int, err error) {
	h.try(func() { h.inner.BatchDecompressFailed(n, err) })
}
func (h *Hooks) Payload(op, k string, raw, stored int) {
	h.try(func() { h.inner.Payload(op, k, raw, stored) })
}
