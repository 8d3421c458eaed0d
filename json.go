package cachefront

import "context"

// GetJSON reads key and deserializes it into T. Absent keys, bypass mode and
// payloads that fail to decode all report ok=false with a nil error.
func GetJSON[T any](ctx context.Context, c *Cache, key string, opts ...CallOption) (T, bool, error) {
	var zero T
	k, raw, ok, err := c.fetch(ctx, "get_json", key, opts)
	if err != nil || !ok {
		return zero, false, err
	}
	var v T
	if err := c.ser.Unmarshal(raw, &v); err != nil {
		c.log.Error("deserialize failed; treating as miss", Fields{"key": k, "err": err})
		return zero, false, nil
	}
	return v, true, nil
}

// SetMultiJSON serializes every value and writes all of them under
// prefix:id in a single store call. An empty map is a no-op.
func SetMultiJSON[V any](ctx context.Context, c *Cache, prefix string, items map[string]V, opts ...CallOption) error {
	if len(items) == 0 {
		return nil
	}
	o := collect(opts)
	if ok, err := c.ready("set_multi", prefix); !ok {
		return err
	}

	raw := make(map[string][]byte, len(items))
	for id, v := range items {
		k := c.Key(id, prefix)
		b, err := c.ser.Marshal(v)
		if err != nil {
			return opErr("set_multi", k, err)
		}
		raw[k] = b
	}

	stored := c.encodeBatch(raw)
	ttl := c.ttl(o.ttl)
	if err := c.store.MSet(ctx, stored, ttl); err != nil {
		return opErr("set_multi", prefix, err)
	}
	for k, b := range stored {
		c.hooks.Payload("set_multi", k, len(raw[k]), len(b))
	}
	c.trace("set_multi", Fields{"prefix": prefix, "items": len(stored), "ttl": ttl})
	return nil
}

// GetMultiJSON reads prefix:id for every id in one store call. The result is
// aligned with ids; a nil element marks a missing key or an entry that failed
// to deserialize.
//
// The result is empty (not len(ids)) in bypass mode and when any entry of the
// batch fails to decompress: one corrupt entry discards the whole batch.
func GetMultiJSON[T any](ctx context.Context, c *Cache, prefix string, ids []string) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	if ok, err := c.ready("get_multi", prefix); err != nil {
		return nil, err
	} else if !ok {
		return []*T{}, nil
	}

	ks := c.keysFor(prefix, ids)
	stored, err := c.store.MGet(ctx, ks)
	if err != nil {
		return nil, opErr("get_multi", prefix, err)
	}
	raw := c.decodeBatch(ks, stored)
	if raw == nil {
		return []*T{}, nil
	}

	out := make([]*T, len(ids))
	hits := 0
	for i, b := range raw {
		if b == nil {
			continue
		}
		v := new(T)
		if err := c.ser.Unmarshal(b, v); err != nil {
			c.log.Error("deserialize failed; treating as miss", Fields{"key": ks[i], "err": err})
			continue
		}
		out[i] = v
		hits++
		c.hooks.Payload("get_multi", ks[i], len(b), len(stored[i]))
	}
	c.trace("get_multi", Fields{"prefix": prefix, "requested": len(ids), "hits": hits})
	return out, nil
}
