package lang

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/goccy/go-yaml"
)

// MarshalJSON encodes the integer as a JSON number of arbitrary magnitude.
func (i Integer) MarshalJSON() ([]byte, error) {
	return []byte(i.String()), nil
}

// MarshalJSON encodes the list as a JSON array.
func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')

	for i, v := range l.items {
		if i > 0 {
			buf.WriteByte(',')
		}

		b, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(b)
	}

	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// MarshalJSON encodes the dict as a JSON object with keys in insertion order.
func (d Dict) MarshalJSON() ([]byte, error) {
	return d.rec.marshalJSON()
}

// MarshalJSON encodes the environment as a JSON object with one member per
// constant in declaration order.
func (e *Environment) MarshalJSON() ([]byte, error) {
	return e.rec.marshalJSON()
}

func (r record) marshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for k, v := range r.all() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// ToNative converts a Value to plain Go data: int for an Integer that fits
// (*big.Int otherwise), []any for List, and map[string]any for Dict. Key order
// is not preserved by the map; use [ToOrdered] where order matters.
func ToNative(v Value) any {
	switch v := v.(type) {
	case Integer:
		n := v.Int()
		if n.IsInt64() && int64(int(n.Int64())) == n.Int64() {
			return int(n.Int64())
		}

		return n

	case List:
		out := make([]any, 0, v.Len())
		for _, item := range v.All() {
			out = append(out, ToNative(item))
		}

		return out

	case Dict:
		out := make(map[string]any, v.Len())
		for k, item := range v.All() {
			out[k] = ToNative(item)
		}

		return out

	default:
		return nil
	}
}

// ToOrdered converts a Value to data suitable for an order-preserving YAML
// encoder. Integers that fit in an int64 become int64, larger ones become
// their decimal string, and dicts become [yaml.MapSlice].
func ToOrdered(v Value) any {
	switch v := v.(type) {
	case Integer:
		return orderedInt(v.Int())

	case List:
		out := make([]any, 0, v.Len())
		for _, item := range v.All() {
			out = append(out, ToOrdered(item))
		}

		return out

	case Dict:
		return v.rec.mapSlice()

	default:
		return nil
	}
}

func orderedInt(n *big.Int) any {
	if n.IsInt64() {
		return n.Int64()
	}

	return n.String()
}

func (r record) mapSlice() yaml.MapSlice {
	out := make(yaml.MapSlice, 0, r.len())
	for k, v := range r.all() {
		out = append(out, yaml.MapItem{Key: k, Value: ToOrdered(v)})
	}

	return out
}
