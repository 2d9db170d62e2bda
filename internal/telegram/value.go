package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a read-only view over a decoded JSON document. The zero Value is null.
//
// Lookups never fail: a missing key or index yields null, and looking anything
// up on a scalar yields the scalar itself, so accesses can be chained freely:
//
//	id, ok := resp.Get("result").Index(0).Get("update_id").AsInt()
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []any
	obj  map[string]any
}

// ParseValue decodes a JSON document. Numbers are kept as json.Number so
// 64-bit ids survive.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	return Wrap(raw), nil
}

// Wrap builds a Value from the output of encoding/json (or plain Go maps,
// slices and scalars). Other types go through a JSON round trip.
func Wrap(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case bool:
		return Value{kind: KindBool, b: x}
	case json.Number:
		return Value{kind: KindNumber, num: x}
	case float64:
		return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(x, 'f', -1, 64))}
	case int:
		return Value{kind: KindNumber, num: json.Number(strconv.Itoa(x))}
	case int64:
		return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(x, 10))}
	case string:
		return Value{kind: KindString, str: x}
	case []any:
		return Value{kind: KindArray, arr: x}
	case map[string]any:
		return Value{kind: KindObject, obj: x}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return Value{}
	}
	v, err := ParseValue(data)
	if err != nil {
		return Value{}
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Get returns the field name of an object. Missing fields and arrays yield
// null; scalars are returned unchanged.
func (v Value) Get(name string) Value {
	switch v.kind {
	case KindObject:
		return Wrap(v.obj[name])
	case KindArray:
		return Value{}
	}
	return v
}

// Index returns element i of an array. Out-of-range indexes and objects
// yield null; scalars are returned unchanged.
func (v Value) Index(i int) Value {
	switch v.kind {
	case KindArray:
		if i < 0 || i >= len(v.arr) {
			return Value{}
		}
		return Wrap(v.arr[i])
	case KindObject:
		return Value{}
	}
	return v
}

// Lookup is like Get but reports whether the field exists.
func (v Value) Lookup(name string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	raw, ok := v.obj[name]
	return Wrap(raw), ok
}

// Contains reports whether an object has the field name. Always false for
// non-objects.
func (v Value) Contains(name string) bool {
	_, ok := v.Lookup(name)
	return ok
}

// Elements iterates over the elements of an array, wrapping each one as it
// is reached. Non-arrays yield nothing.
func (v Value) Elements() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if v.kind != KindArray {
			return
		}
		for _, raw := range v.arr {
			if !yield(Wrap(raw)) {
				return
			}
		}
	}
}

// Len is the number of elements of an array or fields of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := v.num.Int64()
	return n, err == nil
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// Decode stores the value into dst, which is anything json.Unmarshal accepts.
func (v Value) Decode(dst any) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s value: %w", v.kind, err)
	}
	return nil
}

func (v Value) raw() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		return v.arr
	case KindObject:
		return v.obj
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String returns the JSON text of the value.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(data)
}
