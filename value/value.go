// Package value implements the opaque JSON-like scalar and composite
// values that flow through planning states, goals, and plan items.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindArray
	KindObject
)

// Value is an immutable, structurally-comparable scalar or composite,
// mirroring the JSON value lattice: string, integer, float, bool, null,
// an ordered sequence of Values, or an ordered mapping from string keys
// to Values. Number equality is structural-textual: Int(1) and
// Float(1.0) are distinct, matching the host JSON contract.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	arr  []Value
	obj  *orderedFields
}

// orderedFields is a small insertion-ordered string->Value map. It
// backs Object values; State and Multigoal use the heavier
// github.com/wk8/go-ordered-map/v2 instance directly, but a Value
// payload is small and self-contained enough that a parallel
// keys-slice is the simpler, idiomatic choice here.
type orderedFields struct {
	keys   []string
	values map[string]Value
}

func newOrderedFields() *orderedFields {
	return &orderedFields{values: make(map[string]Value)}
}

func (o *orderedFields) set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *orderedFields) clone() *orderedFields {
	clone := &orderedFields{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		clone.values[k] = v
	}
	return clone
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// String wraps a string scalar.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer scalar.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating-point scalar.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Array wraps an ordered sequence of Values. The input slice is
// defensively copied so later mutation by the caller cannot violate
// Value immutability.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), items...)}
}

// Object builds an ordered mapping from string keys to Values,
// preserving the order keys are supplied in. Later calls for a
// repeated key overwrite the value but keep the original position.
func Object(pairs ...KV) Value {
	fields := newOrderedFields()
	for _, p := range pairs {
		fields.set(p.Key, p.Val)
	}
	return Value{kind: KindObject, obj: fields}
}

// KV is a single key/value pair used to build an Object Value.
type KV struct {
	Key string
	Val Value
}

// Pair is a convenience constructor for KV.
func Pair(key string, v Value) KV { return KV{Key: key, Val: v} }

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer payload and whether v is an integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float payload and whether v is a float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the bool payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsArray returns a copy of the array payload and whether v is an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return append([]Value(nil), v.arr...), true
}

// ObjectKeys returns the object's keys in insertion order, or nil if v
// is not an object.
func (v Value) ObjectKeys() []string {
	if v.kind != KindObject || v.obj == nil {
		return nil
	}
	return append([]string(nil), v.obj.keys...)
}

// ObjectGet looks up a field of an object Value.
func (v Value) ObjectGet(key string) (Value, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Value{}, false
	}
	val, ok := v.obj.values[key]
	return val, ok
}

// Equal reports structural equality. Kind must match exactly; an Int
// and a Float holding the same numeric magnitude are NOT equal, per
// the "structural-textual" number equality rule in the data model.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		vKeys := v.ObjectKeys()
		oKeys := other.ObjectKeys()
		if len(vKeys) != len(oKeys) {
			return false
		}
		for _, k := range vKeys {
			vv, _ := v.ObjectGet(k)
			ov, ok := other.ObjectGet(k)
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a compact, human-readable form. Not used for
// equality or persistence, only for verbose trace lines and error
// messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.str)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray:
		out := "["
		for i, item := range v.arr {
			if i > 0 {
				out += ", "
			}
			out += item.String()
		}
		return out + "]"
	case KindObject:
		out := "{"
		for i, k := range v.ObjectKeys() {
			if i > 0 {
				out += ", "
			}
			fv, _ := v.ObjectGet(k)
			out += strconv.Quote(k) + ": " + fv.String()
		}
		return out + "}"
	default:
		return "<invalid>"
	}
}

// MarshalJSON implements json.Marshaler so Value round-trips through
// the standard JSON value lattice described in the external interface
// contract.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		b, err := json.Marshal(v.f)
		if err != nil {
			return nil, err
		}
		if !hasFloatMarkers(string(b)) {
			b = append(b, ".0"...)
		}
		return b, nil
	case KindBool:
		return json.Marshal(v.b)
	case KindArray:
		return json.Marshal(append([]Value{}, v.arr...))
	case KindObject:
		buf := []byte{'{'}
		for i, k := range v.ObjectKeys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			fv, _ := v.ObjectGet(k)
			vb, err := fv.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("value: unknown kind %d", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler, decoding into the tagged
// union. Decoding walks the token stream directly so object fields
// keep their source-text order. Integers without a fractional part or
// exponent in the source become KindInt; anything else numeric becomes
// KindFloat, preserving the "1 and 1.0 are distinct" rule when the
// source JSON text itself distinguishes them.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			fields := newOrderedFields()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("value: object key is %T, want string", keyTok)
				}
				fv, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				fields.set(key, fv)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindObject, obj: fields}, nil
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, arr: items}, nil
		default:
			return Value{}, fmt.Errorf("value: unexpected delimiter %q", t)
		}
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil && !hasFloatMarkers(string(t)) {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported JSON token %T", tok)
	}
}

func hasFloatMarkers(s string) bool {
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}
