// Package cachefront is a caching façade in front of a remote key-value store.
//
// It owns key naming, optional payload compression, default and per-call
// expirations, and batch get/set. When no store is configured the façade runs
// in bypass mode: every operation is a silent no-op returning a neutral value
// (miss, false, empty), so callers can run without a cache.
//
// Components:
//   - Store: the backing key-value store (Redis via go-redis, or the in-process
//     ristretto store for "memory://").
//   - Compressor: optional lossless compression. Compressed payloads travel as
//     base64 text.
//   - Serializer: encodes structured values (JSON by default).
//
// Keys:
//
//	<prefix>:<key>  - prefix is the per-call base key, else Options.KeyPrefix
//	<key>           - when neither is set
//
// Codec failures never fail an operation: a value that cannot be compressed is
// stored uncompressed, and a value that cannot be decompressed is a miss.
// A store configured but not connected is always an error (ErrNotConnected).
//
// Usage:
//
//	c, _ := cachefront.New(cachefront.Options{Addr: "localhost:6379", EnableCompression: true})
//	_ = c.Connect(ctx)
//	_ = c.Set(ctx, "user:1", cachefront.JSON(u), cachefront.WithTTL(time.Hour))
//	u, ok, err := cachefront.GetJSON[User](ctx, c, "user:1")
package cachefront
