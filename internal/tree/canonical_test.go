package tree

import (
	"math"
	"testing"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"null", Null{}, "null"},
		{"nil", nil, "null"},
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"integer", Number(42), "42"},
		{"integral float", Number(2.0), "2"},
		{"negative zero", Number(math.Copysign(0, -1)), "0"},
		{"fraction", Number(0.3), "0.3"},
		{"negative fraction", Number(-12.5), "-12.5"},
		{"bool", Bool(false), "false"},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"nested", Object{"b": Array{Number(1), Null{}}, "a": Object{}}, `{"a":{},"b":[1,null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestFormatNumberECMAScript(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{1, "1"},
		{123456.789, "123456.789"},
		{0.000001, "0.000001"},
		{1.5e-7, "1.5e-7"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-2.5e25, "-2.5e+25"},
		{0.2777777777777778, "0.2777777777777778"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := FormatNumber(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatNumberRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FormatNumber(f)
		assert.Error(t, err)
	}

	_, err := MarshalCanonical(Array{Number(math.Inf(1))})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[0]")
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"html not escaped", `<span class="mord">&</span>`, `"<span class=\"mord\">&</span>"`},
		{"backslash", `\frac`, `"\\frac"`},
		{"newline and tab", "a\nb\tc", `"a\nb\tc"`},
		{"control character", "\x01", `"\u0001"`},
		{"line separator literal", "\u2028", "\"\u2028\""},
		{"decomposed kept", "e\u0301", "\"e\u0301\""},
		{"precomposed kept", "\u00e9", "\"\u00e9\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestCanonicalString(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CanonicalString(Object{"a": Number(1)}))
	assert.Contains(t, CanonicalString(Number(math.NaN())), "unencodable")
}

// The cyberphone canonicalizer is an independent RFC 8785 implementation;
// for well-formed inputs both must agree byte for byte.
func TestMarshalCanonicalMatchesCyberphone(t *testing.T) {
	inputs := []string{
		`{"z":1,"a":[0.3,2,1e21,"x<y"],"m":{"b":null,"a":true}}`,
		`[{"type":"kern","dimension":{"unit":"em","number":0.16666666666666666}}]`,
		`{"text":"\\alpha","loc":{"end":6,"start":0},"mode":"math"}`,
		`{"Ａ":1,"😀":2,"a":-0.000001}`,
		`[1.5e-7,123456.789,-42,true,false,null,""]`,
		`{"text":"e\u0301","cand":"\u00e9"}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want, err := cyberphone.Transform([]byte(input))
			require.NoError(t, err)

			v, err := Unmarshal([]byte(input))
			require.NoError(t, err)
			got, err := MarshalCanonical(v)
			require.NoError(t, err)

			assert.Equal(t, string(want), string(got))
		})
	}
}
