package codec

import "fmt"

// Limit wraps another serializer to enforce a maximum payload size at
// Unmarshal time. Marshal is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect against oversized inputs coming from a shared cache.
type Limit struct {
	// Inner is the underlying serializer being wrapped. It must be set.
	Inner Serializer
	// MaxDecode is the maximum permitted length (in bytes) of the incoming
	// payload for Unmarshal.
	MaxDecode int
}

var _ Serializer = Limit{}

func (l Limit) Marshal(v any) ([]byte, error) { return l.Inner.Marshal(v) }
func (l Limit) Unmarshal(b []byte, dst any) error {
	if l.MaxDecode > 0 && len(b) > l.MaxDecode {
		return fmt.Errorf("payload too large: %d > %d", len(b), l.MaxDecode)
	}
	return l.Inner.Unmarshal(b, dst)
}
