package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ValueKind identifies the logical type of a Value.
type ValueKind uint8

// Value kinds.
const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged logical value: string, number, boolean, list, map or
// null, possibly nested. The zero Value is null.
//
// Values are immutable by convention; accessors return copies of list
// and map contents where mutation would otherwise leak.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value holding the given elements.
func List(elems ...Value) Value {
	list := make([]Value, len(elems))
	copy(list, elems)
	return Value{kind: KindList, list: list}
}

// Map returns a map value holding a copy of the given entries.
func Map(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean content.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt returns the integer content. Whole floats convert losslessly.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsFloat returns the numeric content as a float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// AsString returns the string content.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsList returns a copy of the list content.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	list := make([]Value, len(v.list))
	copy(list, v.list)
	return list, true
}

// AsMap returns a copy of the map content.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	m := make(map[string]Value, len(v.m))
	for k, e := range v.m {
		m[k] = e
	}
	return m, true
}

// Text renders the value as a plain string for display. Strings render
// without quotes; composite values render as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("<%s>", v.kind)
		}
		return string(data)
	}
}

// Equal reports deep equality. Numeric values compare across kinds:
// Int(2) equals Float(2) because the wire form does not preserve the
// int/float distinction for whole numbers.
func (v Value) Equal(other Value) bool {
	if isNumeric(v.kind) && isNumeric(other.kind) {
		if v.kind == KindInt && other.kind == KindInt {
			return v.i == other.i
		}
		vf, _ := v.AsFloat()
		of, _ := other.AsFloat()
		return vf == of
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, e := range v.m {
			oe, ok := other.m[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		list := make([]Value, len(v.list))
		for i, e := range v.list {
			list[i] = e.Clone()
		}
		return Value{kind: KindList, list: list}
	case KindMap:
		m := make(map[string]Value, len(v.m))
		for k, e := range v.m {
			m[k] = e.Clone()
		}
		return Value{kind: KindMap, m: m}
	default:
		return v
	}
}

// MarshalJSON implements json.Marshaler. Map keys serialize in sorted
// order so the wire form is deterministic.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return nil, fmt.Errorf("value: float %v has no JSON form", v.f)
		}
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		buf := []byte{'['}
		for i, e := range v.list {
			if i > 0 {
				buf = append(buf, ',')
			}
			data, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, data...)
		}
		return append(buf, ']'), nil
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kdata, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vdata, err := v.m[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, kdata...)
			buf = append(buf, ':')
			buf = append(buf, vdata...)
		}
		return append(buf, '}'), nil
	}
	return nil, fmt.Errorf("value: unknown kind %d", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler. Numbers decode as Int when
// they parse as a whole int64, Float otherwise.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := decodeNumberPreserving(data, &raw); err != nil {
		return err
	}
	decoded, err := FromJSONValue(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// FromJSONValue converts a decoded JSON value (as produced by
// encoding/json with UseNumber) into a Value.
func FromJSONValue(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value: bad number %q: %w", x, err)
		}
		return Float(f), nil
	case float64:
		// Callers that decoded without UseNumber.
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return Int(int64(x)), nil
		}
		return Float(x), nil
	case []any:
		list := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromJSONValue(e)
			if err != nil {
				return Value{}, err
			}
			list[i] = ev
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := FromJSONValue(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = ev
		}
		return Value{kind: KindMap, m: m}, nil
	}
	return Value{}, fmt.Errorf("value: unsupported type %T", raw)
}

func decodeNumberPreserving(data []byte, target *any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return err
	}
	// Trailing garbage after the first JSON value is an error.
	if dec.More() {
		return fmt.Errorf("value: trailing data after JSON value")
	}
	return nil
}

func isNumeric(k ValueKind) bool {
	return k == KindInt || k == KindFloat
}
