package jsonvalue

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, NullKind, v.Kind())
	assert.True(t, Equal(v, Null()))
}

func TestConstructorsAndAccessors(t *testing.T) {
	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	n, ok := Int(42).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, json.Number("42"), n)

	s, ok := String("hello").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = String("hello").AsNumber()
	assert.False(t, ok)

	arr, ok := Array(Int(1), Int(2)).AsArray()
	assert.True(t, ok)
	assert.Len(t, arr, 2)

	obj, ok := ObjectValue(nil).AsObject()
	assert.True(t, ok)
	assert.Equal(t, 0, obj.Len())
}

func TestFloat(t *testing.T) {
	n, _ := Float(0.1).AsNumber()
	assert.Equal(t, json.Number("0.1"), n)
	assert.True(t, Float(math.NaN()).IsNull())
	assert.True(t, Float(math.Inf(1)).IsNull())
}

func TestNumberConversions(t *testing.T) {
	i, err := Number("9007199254740993").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), i)

	f, err := Number("3.25").Float64()
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	_, err = String("3").Int64()
	assert.Error(t, err)
}

func TestObjectOrderAndDuplicates(t *testing.T) {
	o := NewObject()
	o.Set("b", Int(1))
	o.Set("a", Int(2))
	o.Set("b", Int(3))

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	require.True(t, ok)
	assert.True(t, Equal(Int(3), v))
	assert.True(t, o.Has("a"))
	assert.False(t, o.Has("c"))

	var visited []string
	o.Range(func(key string, _ Value) bool {
		visited = append(visited, key)
		return false
	})
	assert.Equal(t, []string{"b"}, visited)
}

func TestObjectValue_MakesObjectReadOnly(t *testing.T) {
	o := NewObject()
	o.Set("a", Int(1))
	assert.False(t, o.ReadOnly())

	v := ObjectValue(o)
	assert.True(t, o.ReadOnly())
	assert.Panics(t, func() { o.Set("a", Int(2)) })
	assert.Panics(t, func() { o.Set("b", Int(2)) })

	got, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got.Keys())
	a, _ := got.Get("a")
	assert.True(t, Equal(Int(1), a))
}

func TestAsArray_ReturnsCopy(t *testing.T) {
	v := Array(Int(1), Int(2))

	elems, ok := v.AsArray()
	require.True(t, ok)
	elems[0] = String("changed")

	again, _ := v.AsArray()
	assert.True(t, Equal(Int(1), again[0]))
	assert.True(t, Equal(Array(Int(1), Int(2)), v))
}

func TestNilObject(t *testing.T) {
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.False(t, o.Has("x"))
	_, ok := o.Get("x")
	assert.False(t, ok)
	assert.Empty(t, o.Keys())
	assert.Nil(t, o.Members())
}

func TestEqual(t *testing.T) {
	obj := func(pairs ...any) Value {
		o := NewObject()
		for i := 0; i < len(pairs); i += 2 {
			o.Set(pairs[i].(string), pairs[i+1].(Value))
		}
		return ObjectValue(o)
	}

	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"nulls", Null(), Null(), true},
		{"different kinds", Null(), Bool(false), false},
		{"number literals differ but values match", Number("1.0"), Number("1"), true},
		{"exponent form", Number("1e2"), Number("100"), true},
		{"different numbers", Number("1"), Number("2"), false},
		{"strings", String("x"), String("x"), true},
		{"arrays", Array(Int(1), String("a")), Array(Int(1), String("a")), true},
		{"array length", Array(Int(1)), Array(Int(1), Int(1)), false},
		{"objects", obj("a", Int(1), "b", Null()), obj("a", Int(1), "b", Null()), true},
		{"object order matters", obj("a", Int(1), "b", Int(2)), obj("b", Int(2), "a", Int(1)), false},
		{"object values", obj("a", Int(1)), obj("a", Int(2)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
		})
	}
}

type kindCounter struct{}

func (kindCounter) Null() (string, error)              { return "null", nil }
func (kindCounter) Bool(bool) (string, error)          { return "bool", nil }
func (kindCounter) Number(json.Number) (string, error) { return "number", nil }
func (kindCounter) String(string) (string, error)      { return "string", nil }
func (kindCounter) Array([]Value) (string, error)      { return "array", nil }
func (kindCounter) Object(*Object) (string, error)     { return "object", nil }

func TestAccept(t *testing.T) {
	values := map[string]Value{
		"null":   Null(),
		"bool":   Bool(false),
		"number": Int(1),
		"string": String(""),
		"array":  Array(),
		"object": ObjectValue(NewObject()),
	}
	for want, v := range values {
		got, err := Accept[string](v, kindCounter{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", ObjectKind.String())
	assert.Equal(t, "boolean", BoolKind.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
