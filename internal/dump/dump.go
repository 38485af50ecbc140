// Package dump renders a debug view of a decoded JSON value.
package dump

import (
	"encoding/json"

	"github.com/davecgh/go-spew/spew"

	"github.com/mcncl/jsonreform/jsonvalue"
)

var config = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump converts v into plain Go maps, slices and primitives and prints the
// result with go-spew. Objects become map[string]any, so member order is not
// kept; keys are printed sorted.
func Dump(v jsonvalue.Value) string {
	return config.Sdump(Native(v))
}

// Native returns v as the Go value encoding/json would decode it into, except
// that integral numbers become int64 and numbers too large for float64 stay
// json.Number.
func Native(v jsonvalue.Value) any {
	native, err := jsonvalue.Accept[any](v, nativeVisitor{})
	if err != nil {
		return nil
	}
	return native
}

type nativeVisitor struct{}

func (nativeVisitor) Null() (any, error) { return nil, nil }

func (nativeVisitor) Bool(b bool) (any, error) { return b, nil }

func (nativeVisitor) Number(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if f, err := n.Float64(); err == nil {
		return f, nil
	}
	return n, nil
}

func (nativeVisitor) String(s string) (any, error) { return s, nil }

func (nv nativeVisitor) Array(values []jsonvalue.Value) (any, error) {
	out := make([]any, 0, len(values))
	for _, value := range values {
		elem, err := jsonvalue.Accept[any](value, nv)
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

func (nv nativeVisitor) Object(obj *jsonvalue.Object) (any, error) {
	out := make(map[string]any, obj.Len())
	var err error
	obj.Range(func(key string, value jsonvalue.Value) bool {
		var elem any
		elem, err = jsonvalue.Accept[any](value, nv)
		if err != nil {
			return false
		}
		out[key] = elem
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
