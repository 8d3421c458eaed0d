// Package codec holds the serializers used for structured cache values.
//
// A Serializer turns a Go value into the bytes that travel through the
// compression pipeline, and back. JSON is the default.
package codec

import "fmt"

// Serializer encodes values to bytes and decodes bytes into a pointer target.
// Implementations must be safe for concurrent use.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, dst any) error
}

// ByName resolves a serializer from its configuration name.
// Known names: "json" (default when empty), "msgpack", "cbor", "protobuf".
func ByName(name string) (Serializer, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "msgpack":
		return Msgpack{}, nil
	case "cbor":
		return NewCBOR(false)
	case "protobuf":
		return Protobuf{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown serializer %q", name)
	}
}
