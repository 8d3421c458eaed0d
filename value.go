package cachefront

import "reflect"

// Value is what Set writes. It is a closed set of variants:
//
//	StringValue - stored as-is (after optional compression)
//	JSONValue   - serialized with the configured Serializer first
//	Null        - deletes the key
//
// An empty StringValue and a JSONValue holding nil (including a typed nil
// pointer, map, slice or interface) or an empty string also delete the key.
type Value interface {
	isValue()
}

// StringValue is written without serialization.
type StringValue string

// JSONValue wraps any value the Serializer can encode.
type JSONValue struct{ V any }

type nullValue struct{}

func (StringValue) isValue() {}
func (JSONValue) isValue()   {}
func (nullValue) isValue()   {}

// Null deletes the key when passed to Set.
var Null Value = nullValue{}

// String wraps s as a StringValue.
func String(s string) Value { return StringValue(s) }

// JSON wraps v as a JSONValue.
func JSON(v any) Value { return JSONValue{V: v} }

// payload returns the serialized bytes of v, or del=true when v means
// "remove the key".
func (c *Cache) payload(v Value) (raw []byte, del bool, err error) {
	switch vv := v.(type) {
	case nil, nullValue:
		return nil, true, nil
	case StringValue:
		if vv == "" {
			return nil, true, nil
		}
		return []byte(vv), false, nil
	case JSONValue:
		if isEmpty(vv.V) {
			return nil, true, nil
		}
		b, err := c.ser.Marshal(vv.V)
		if err != nil {
			return nil, false, err
		}
		return b, false, nil
	default:
		return nil, false, errUnknownValue
	}
}

// isEmpty reports whether v would serialize to null or an empty string.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
