package cachefront

import "github.com/unkn0wn-root/cachefront/internal/keys"

// Key returns the storage key for key. A non-empty base replaces the global
// KeyPrefix; with neither, key is used unchanged. Pure: the same inputs always
// give the same key.
func (c *Cache) Key(key, base string) string {
	if base != "" {
		return keys.Build(base, key)
	}
	return keys.Build(c.prefix, key)
}

func (c *Cache) keysFor(prefix string, ids []string) []string {
	if prefix != "" {
		return keys.BuildAll(prefix, ids)
	}
	return keys.BuildAll(c.prefix, ids)
}
