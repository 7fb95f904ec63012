package tree

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeStripsLoc(t *testing.T) {
	input := MustFromAny(map[string]any{
		"type": "mathord",
		"mode": "math",
		"loc":  map[string]any{"start": 0, "end": 1},
		"text": "x",
	})

	got := Canonicalize(input, DefaultCanonicalOptions())

	want := Object{"mode": String("math"), "text": String("x"), "type": String("mathord")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Canonicalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalizeStripsAtEveryDepth(t *testing.T) {
	input := MustFromAny([]any{
		map[string]any{
			"loc":  map[string]any{},
			"type": "ordgroup",
			"body": []any{
				map[string]any{"loc": map[string]any{}, "text": "b"},
			},
		},
	})

	got := Canonicalize(input, DefaultCanonicalOptions())

	want := Array{Object{
		"type": String("ordgroup"),
		"body": Array{Object{"text": String("b")}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Canonicalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalizeCustomExcludedKeys(t *testing.T) {
	input := Object{"loc": Number(1), "debug": String("x"), "text": String("y")}

	got := Canonicalize(input, CanonicalOptions{ExcludedKeys: []string{"debug"}, Precision: 8})

	assert.Equal(t, Object{"loc": Number(1), "text": String("y")}, got)
}

func TestCanonicalizeQuantizesNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"float noise", 0.30000000000000004, 0.3},
		{"sin pi", math.Sin(math.Pi), 0},
		{"negative zero", math.Copysign(0, -1), 0},
		{"integral", 2.0, 2},
		{"eight digits kept", 0.12345678, 0.12345678},
		{"ninth digit rounded", 0.123456789, 0.12345679},
		{"huge values untouched", 1e20, 1e20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(Number(tt.input), DefaultCanonicalOptions())
			assert.Equal(t, Number(tt.want), got)
		})
	}
}

func TestCanonicalizeQuantizationTolerance(t *testing.T) {
	a := Canonicalize(Number(1.23456789), DefaultCanonicalOptions())
	b := Canonicalize(Number(1.234567892), DefaultCanonicalOptions())
	c := Canonicalize(Number(1.23456788), DefaultCanonicalOptions())

	assert.True(t, Equal(a, b), "difference below 5e-9 must vanish")
	assert.False(t, Equal(a, c), "difference of 1e-8 must survive")
}

func TestCanonicalizeKeyOrderInsensitive(t *testing.T) {
	m1 := Object{}
	m1["zeta"] = Number(1)
	m1["alpha"] = Array{String("a")}
	m1["mid"] = Object{"y": Bool(true), "x": Null{}}

	m2 := Object{}
	m2["mid"] = Object{"x": Null{}, "y": Bool(true)}
	m2["alpha"] = Array{String("a")}
	m2["zeta"] = Number(1)

	c1 := Canonicalize(m1, DefaultCanonicalOptions())
	c2 := Canonicalize(m2, DefaultCanonicalOptions())

	assert.True(t, Equal(c1, c2))
	assert.Equal(t, CanonicalString(c1), CanonicalString(c2))
}

func TestCanonicalizeIdempotent(t *testing.T) {
	values := []Value{
		Null{},
		String("x"),
		Bool(true),
		Number(0.30000000000000004),
		Number(-0.5),
		Number(123.456789012345),
		Number(45035996.123456789),
		Number(1e-9),
		Number(0.000000005),
		Number(1e20),
		Number(-7.999999999),
		MustFromAny([]any{
			map[string]any{
				"type": "genfrac",
				"loc":  map[string]any{"start": 0, "end": 12},
				"barSize": map[string]any{
					"number": 0.04000000000000001,
					"unit":   "em",
				},
				"numer": []any{1.0000000049, "a", nil, false},
			},
		}),
	}

	opts := DefaultCanonicalOptions()
	for _, v := range values {
		t.Run(CanonicalString(v), func(t *testing.T) {
			once := Canonicalize(v, opts)
			twice := Canonicalize(once, opts)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("Canonicalize not idempotent (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestCanonicalizeDoesNotMutateInput(t *testing.T) {
	input := Object{
		"loc":  Number(1),
		"body": Array{Number(0.30000000000000004)},
	}

	_ = Canonicalize(input, DefaultCanonicalOptions())

	assert.Contains(t, input, "loc")
	assert.Equal(t, Number(0.30000000000000004), input["body"].(Array)[0])
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, 0.33, Quantize(1.0/3.0, 2))
	assert.Equal(t, 3.0, Quantize(2.5, 0))
	assert.True(t, math.IsNaN(Quantize(math.NaN(), 8)))
	assert.True(t, math.IsInf(Quantize(math.Inf(-1), 8), -1))
}

func TestDefaultCanonicalOptionsIsolated(t *testing.T) {
	opts := DefaultCanonicalOptions()
	opts.ExcludedKeys[0] = "changed"

	assert.Equal(t, []string{"loc"}, DefaultExcludedKeys)
}
