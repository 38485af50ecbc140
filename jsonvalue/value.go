// Package jsonvalue provides the in-memory representation of a decoded JSON
// document.
//
// A Value is a tagged union over the six JSON types. Objects keep their
// members in input order, and numbers keep the literal text they were decoded
// from so that integers and floats survive a round trip unchanged.
//
// The zero Value is the JSON null value.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

// String returns the lower-case JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "boolean"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable JSON value.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  *Object
}

// Null returns the JSON null value.
func Null() Value {
	return Value{}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// Number wraps a number literal. The literal is not validated; use the
// parser for untrusted text.
func Number(n json.Number) Value {
	return Value{kind: NumberKind, num: n}
}

// Int wraps an integer.
func Int(i int64) Value {
	return Number(json.Number(strconv.FormatInt(i, 10)))
}

// Float wraps a float using the shortest representation that round-trips.
// NaN and infinities have no JSON form and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64)))
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

// Array wraps the given elements. The slice is copied.
func Array(elems ...Value) Value {
	arr := make([]Value, len(elems))
	copy(arr, elems)
	return Value{kind: ArrayKind, arr: arr}
}

// ObjectValue wraps an object and makes it read-only. A nil object yields an
// empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	if !o.readOnly {
		o.readOnly = true
	}
	return Value{kind: ObjectKind, obj: o}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == BoolKind
}

func (v Value) AsNumber() (json.Number, bool) {
	return v.num, v.kind == NumberKind
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == StringKind
}

// AsArray returns a copy of the elements of an array.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != ArrayKind {
		return nil, false
	}
	return v.elements(), true
}

func (v Value) elements() []Value {
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.kind == ObjectKind
}

// Int64 returns the value of an integral number.
func (v Value) Int64() (int64, error) {
	if v.kind != NumberKind {
		return 0, fmt.Errorf("jsonvalue: %s is not a number", v.kind)
	}
	return v.num.Int64()
}

// Float64 returns the value of a number as a float.
func (v Value) Float64() (float64, error) {
	if v.kind != NumberKind {
		return 0, fmt.Errorf("jsonvalue: %s is not a number", v.kind)
	}
	return v.num.Float64()
}

// String returns a short human-readable description of v. It is not JSON;
// use the document formatter for that.
func (v Value) String() string {
	switch v.kind {
	case NullKind:
		return "null"
	case BoolKind:
		return strconv.FormatBool(v.b)
	case NumberKind:
		return v.num.String()
	case StringKind:
		return strconv.Quote(v.str)
	case ArrayKind:
		return fmt.Sprintf("[array len=%d]", len(v.arr))
	case ObjectKind:
		return fmt.Sprintf("{object len=%d}", v.obj.Len())
	default:
		return "invalid"
	}
}
