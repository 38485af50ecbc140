package jsonvalue

import (
	"encoding/json"
	"fmt"
)

// A Visitor processes a Value one variant at a time. The Array and Object
// methods may recursively call Accept on their elements. Array receives a
// copy of the elements and Object a read-only object.
type Visitor[T any] interface {
	Null() (T, error)
	Bool(bool) (T, error)
	Number(json.Number) (T, error)
	String(string) (T, error)
	Array([]Value) (T, error)
	Object(*Object) (T, error)
}

// Accept calls the visitor method matching the variant of value.
//
// This is a function rather than a method so that the result type can be
// generic.
func Accept[T any](value Value, visitor Visitor[T]) (T, error) {
	switch value.kind {
	case NullKind:
		return visitor.Null()
	case BoolKind:
		return visitor.Bool(value.b)
	case NumberKind:
		return visitor.Number(value.num)
	case StringKind:
		return visitor.String(value.str)
	case ArrayKind:
		return visitor.Array(value.elements())
	case ObjectKind:
		return visitor.Object(value.obj)
	default:
		var zero T
		return zero, fmt.Errorf("invalid JSON value kind %d", value.kind)
	}
}

// Equal reports whether a and b are structurally equal. Numbers compare by
// numeric value, objects by keys, order and values.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NullKind:
		return true
	case BoolKind:
		return a.b == b.b
	case NumberKind:
		return numbersEqual(a.num, b.num)
	case StringKind:
		return a.str == b.str
	case ArrayKind:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		am, bm := a.obj.members, b.obj.members
		for i := range am {
			if am[i].Key != bm[i].Key || !Equal(am[i].Value, bm[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	ai, aerr := a.Int64()
	bi, berr := b.Int64()
	if aerr == nil && berr == nil {
		return ai == bi
	}
	af, aerr := a.Float64()
	bf, berr := b.Float64()
	return aerr == nil && berr == nil && af == bf
}
