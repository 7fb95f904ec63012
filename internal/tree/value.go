package tree

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON-shaped parse tree types.
// Only Null, String, Number, Bool, Array and Object implement it.
type Value interface {
	treeValue()
}

// Null represents a JSON null.
type Null struct{}

func (Null) treeValue() {}

// String represents a string leaf.
type String string

func (String) treeValue() {}

// Number represents a numeric leaf. Integers and fractions share one type.
type Number float64

func (Number) treeValue() {}

// Bool represents a boolean leaf.
type Bool bool

func (Bool) treeValue() {}

// Array is an ordered sequence of values. Order is semantic.
type Array []Value

func (Array) treeValue() {}

// Object maps unique keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) treeValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// For ASCII keys this is plain lexicographic order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// compareKeys compares strings by UTF-16 code units.
// Go's native string comparison uses UTF-8 bytes, which orders
// supplementary-plane characters differently.
func compareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// Kind names the JSON type of v ("null", "string", "number", "bool",
// "array", "object"). A nil interface reports "null".
func Kind(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Equal reports whether a and b are structurally identical: same kinds,
// same object key sets with pairwise-equal values, same array lengths with
// pairwise-equal elements. A nil Value equals Null.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil, Null:
		switch b.(type) {
		case nil, Null:
			return true
		}
		return false
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, aElem := range av {
			bElem, present := bv[k]
			if !present || !Equal(aElem, bElem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
