package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Protobuf serializes proto messages. Marshal rejects anything that is not a
// proto.Message. Unmarshal accepts either a message or a pointer to a message
// pointer (as produced by generic helpers decoding into *T), allocating the
// message in the latter case.
type Protobuf struct{}

var _ Serializer = Protobuf{}

func (Protobuf) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec: protobuf value %T is not a proto.Message", v)
	}
	return proto.Marshal(m)
}

func (Protobuf) Unmarshal(b []byte, dst any) error {
	if m, ok := dst.(proto.Message); ok {
		return proto.Unmarshal(b, m)
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Pointer {
		fresh := reflect.New(rv.Elem().Type().Elem())
		if m, ok := fresh.Interface().(proto.Message); ok {
			if err := proto.Unmarshal(b, m); err != nil {
				return err
			}
			rv.Elem().Set(fresh)
			return nil
		}
	}
	return fmt.Errorf("codec: protobuf target %T is not a proto.Message", dst)
}
