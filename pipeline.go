package cachefront

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// encode compresses raw for transmission. Compression failures are logged
// and the value goes out uncompressed; they never fail the write.
func (c *Cache) encode(key string, raw []byte) []byte {
	if c.comp == nil || len(raw) == 0 {
		return raw
	}
	out, err := c.compressOne(raw)
	if err != nil {
		c.log.Error("compress failed; storing uncompressed", Fields{"key": key, "codec": c.comp.Name(), "err": err})
		c.hooks.CompressFailed(key, err)
		return raw
	}
	return out
}

// decode reverses encode. A payload that cannot be decoded is a miss.
func (c *Cache) decode(key string, stored []byte) ([]byte, bool) {
	if c.comp == nil || len(stored) == 0 {
		return stored, true
	}
	raw, err := c.decompressOne(stored)
	if err != nil {
		c.log.Error("decompress failed; treating as miss", Fields{"key": key, "codec": c.comp.Name(), "err": err})
		c.hooks.DecompressFailed(key, err)
		return nil, false
	}
	return raw, true
}

func (c *Cache) compressOne(raw []byte) ([]byte, error) {
	packed, err := c.comp.Compress(raw)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(packed)))
	base64.StdEncoding.Encode(out, packed)
	return out, nil
}

func (c *Cache) decompressOne(stored []byte) ([]byte, error) {
	packed := make([]byte, base64.StdEncoding.DecodedLen(len(stored)))
	n, err := base64.StdEncoding.Decode(packed, stored)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return c.comp.Decompress(packed[:n])
}

// encodeBatch compresses every value concurrently. If any item fails, the
// whole batch is written uncompressed.
func (c *Cache) encodeBatch(items map[string][]byte) map[string][]byte {
	if c.comp == nil || len(items) == 0 {
		return items
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	packed := make([][]byte, len(keys))

	var g errgroup.Group
	for i, k := range keys {
		raw := items[k]
		if len(raw) == 0 {
			packed[i] = raw
			continue
		}
		g.Go(func() error {
			out, err := c.compressOne(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			packed[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Error("batch compress failed; storing batch uncompressed", Fields{"items": len(items), "codec": c.comp.Name(), "err": err})
		c.hooks.BatchCompressFailed(len(items), err)
		return items
	}

	out := make(map[string][]byte, len(keys))
	for i, k := range keys {
		out[k] = packed[i]
	}
	return out
}

// decodeBatch decompresses every present value concurrently, keeping
// positions. Missing entries (nil) stay nil. If any item fails, the result
// collapses to nil: one bad entry discards the whole batch.
func (c *Cache) decodeBatch(keys []string, stored [][]byte) [][]byte {
	if c.comp == nil {
		return stored
	}
	out := make([][]byte, len(stored))

	var g errgroup.Group
	for i, b := range stored {
		if len(b) == 0 {
			out[i] = b
			continue
		}
		g.Go(func() error {
			raw, err := c.decompressOne(b)
			if err != nil {
				return fmt.Errorf("%s: %w", keys[i], err)
			}
			out[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Error("batch decompress failed; treating batch as miss", Fields{"items": len(stored), "codec": c.comp.Name(), "err": err})
		c.hooks.BatchDecompressFailed(len(stored), err)
		return nil
	}
	return out
}
