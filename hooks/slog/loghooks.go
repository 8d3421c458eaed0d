package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/cachefront"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	PayloadEvery uint64
	BypassEvery  uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	payloadCtr atomic.Uint64
	bypassCtr  atomic.Uint64
}

var _ cachefront.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Bypassed(op string) {
	if h.l == nil || !sample(h.opts.BypassEvery, &h.bypassCtr) {
		return
	}
	h.l.Debug("cachefront.bypassed", "op", op)
}

func (h *Hooks) CompressFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachefront.compress_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) DecompressFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachefront.decompress_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) BatchCompressFailed(n int, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cachefront.batch_compress_failed",
		"items", n,
		"err", err)
}

func (h *Hooks) BatchDecompressFailed(n int, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("cachefront.batch_decompress_failed",
		"items", n,
		"err", err)
}

func (h *Hooks) Payload(op, storageKey string, raw, stored int) {
	if h.l == nil || !sample(h.opts.PayloadEvery, &h.payloadCtr) {
		return
	}
	h.l.Debug("cachefront.payload",
		"op", op,
		"key", h.redact(storageKey),
		"raw", raw,
		"stored", stored)
}
