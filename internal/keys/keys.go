// Package keys builds storage key names.
package keys

// Sep joins a prefix and a key.
const Sep = ":"

// Build returns prefix:key, or key unchanged when prefix is empty.
func Build(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Sep + key
}

// BuildAll applies Build to every id, preserving order.
func BuildAll(prefix string, ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Build(prefix, id)
	}
	return out
}
