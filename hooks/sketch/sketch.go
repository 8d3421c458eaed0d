// Package sketch implements cachefront.Hooks that track payload size and
// compression ratio quantiles per operation with DDSketch.
package sketch

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/unkn0wn-root/cachefront"
)

// Tracker records every Payload event. Other events are counted and passed
// on to the next Hooks, if any.
type Tracker struct {
	mu               sync.Mutex
	sizes            map[string]*ddsketch.DDSketch
	ratios           map[string]*ddsketch.DDSketch
	relativeAccuracy float64

	next cachefront.Hooks

	bypassed      atomic.Uint64
	codecFailures atomic.Uint64
	batchFailures atomic.Uint64
}

var _ cachefront.Hooks = (*Tracker)(nil)

// New creates a tracker. relativeAccuracy bounds the error of quantile
// estimates (0.01 = 1%). next may be nil.
func New(relativeAccuracy float64, next cachefront.Hooks) *Tracker {
	if next == nil {
		next = cachefront.NopHooks{}
	}
	return &Tracker{
		sizes:            make(map[string]*ddsketch.DDSketch),
		ratios:           make(map[string]*ddsketch.DDSketch),
		relativeAccuracy: relativeAccuracy,
		next:             next,
	}
}

func (t *Tracker) sketch(m map[string]*ddsketch.DDSketch, op string) *ddsketch.DDSketch {
	s, ok := m[op]
	if !ok {
		var err error
		s, err = ddsketch.LogUnboundedDenseDDSketch(t.relativeAccuracy)
		if err != nil {
			s, _ = ddsketch.NewDefaultDDSketch(0.01)
		}
		m[op] = s
	}
	return s
}

func (t *Tracker) Payload(op, storageKey string, raw, stored int) {
	t.mu.Lock()
	_ = t.sketch(t.sizes, op).Add(float64(raw))
	if raw > 0 {
		_ = t.sketch(t.ratios, op).Add(float64(stored) / float64(raw))
	}
	t.mu.Unlock()
	t.next.Payload(op, storageKey, raw, stored)
}

func (t *Tracker) Bypassed(op string) {
	t.bypassed.Add(1)
	t.next.Bypassed(op)
}

func (t *Tracker) CompressFailed(k string, err error) {
	t.codecFailures.Add(1)
	t.next.CompressFailed(k, err)
}

func (t *Tracker) DecompressFailed(k string, err error) {
	t.codecFailures.Add(1)
	t.next.DecompressFailed(k, err)
}

func (t *Tracker) BatchCompressFailed(n int, err error) {
	t.batchFailures.Add(1)
	t.next.BatchCompressFailed(n, err)
}

func (t *Tracker) BatchDecompressFailed(n int, err error) {
	t.batchFailures.Add(1)
	t.next.BatchDecompressFailed(n, err)
}

// Stats summarizes the payloads of one operation. Sizes are in bytes;
// ratios are stored/raw, so values below 1 mean compression paid off.
type Stats struct {
	Op       string
	Count    int64
	RawP50   float64
	RawP99   float64
	RawMax   float64
	RatioP50 float64
	RatioP99 float64
}

// Stats returns the summary for op.
func (t *Tracker) Stats(op string) (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked(op)
}

func (t *Tracker) statsLocked(op string) (Stats, error) {
	s, ok := t.sizes[op]
	if !ok {
		return Stats{}, fmt.Errorf("sketch: no data for operation: %s", op)
	}
	st := Stats{Op: op, Count: int64(s.GetCount())}
	if st.Count == 0 {
		return st, nil
	}
	st.RawP50, _ = s.GetValueAtQuantile(0.50)
	st.RawP99, _ = s.GetValueAtQuantile(0.99)
	st.RawMax, _ = s.GetMaxValue()
	if r, ok := t.ratios[op]; ok && !r.IsEmpty() {
		st.RatioP50, _ = r.GetValueAtQuantile(0.50)
		st.RatioP99, _ = r.GetValueAtQuantile(0.99)
	}
	return st, nil
}

// AllStats returns the summaries of every operation seen so far, sorted by
// operation name.
func (t *Tracker) AllStats() []Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Stats, 0, len(t.sizes))
	for op := range t.sizes {
		if st, err := t.statsLocked(op); err == nil {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

// Counters returns how many calls were bypassed, how many single-value codec
// failures and how many batch codec failures were reported.
func (t *Tracker) Counters() (bypassed, codecFailures, batchFailures uint64) {
	return t.bypassed.Load(), t.codecFailures.Load(), t.batchFailures.Load()
}

func (s Stats) String() string {
	if s.Count == 0 {
		return fmt.Sprintf("  %s: no data", s.Op)
	}
	return fmt.Sprintf("  %s (n=%d): raw p50=%.0fB p99=%.0fB max=%.0fB ratio p50=%.2f p99=%.2f",
		s.Op, s.Count, s.RawP50, s.RawP99, s.RawMax, s.RatioP50, s.RatioP99)
}
