package tree

import "math"

// DefaultPrecision is the number of fractional digits numeric leaves keep.
const DefaultPrecision = 8

// DefaultExcludedKeys are source-location annotations that only one
// implementation may emit and that carry no rendering semantics.
var DefaultExcludedKeys = []string{"loc"}

// quantizeLimit bounds the scaled magnitude that is still rounded.
// Below 2^50 the round trip x*scale/scale*scale recovers the same integer,
// which is what makes Canonicalize idempotent.
const quantizeLimit = 1 << 50

// CanonicalOptions configures Canonicalize.
// Start from DefaultCanonicalOptions; a zero Precision rounds to integers.
type CanonicalOptions struct {
	// ExcludedKeys are dropped from objects at every depth.
	ExcludedKeys []string

	// Precision is the number of fractional digits kept on numeric leaves.
	Precision int
}

// DefaultCanonicalOptions drops "loc" and keeps 8 fractional digits.
func DefaultCanonicalOptions() CanonicalOptions {
	return CanonicalOptions{
		ExcludedKeys: append([]string(nil), DefaultExcludedKeys...),
		Precision:    DefaultPrecision,
	}
}

// Canonicalize returns the comparison-stable form of v:
//   - scalars other than numbers pass through unchanged
//   - numbers are quantized to opts.Precision fractional digits
//   - arrays keep their order, elements canonicalized
//   - objects lose every excluded key (not recursed into) and keep the rest,
//     canonicalized; key order is fixed by Object.SortedKeys
//
// The input is not modified. The result shares no maps or slices with it.
func Canonicalize(v Value, opts CanonicalOptions) Value {
	excluded := make(map[string]struct{}, len(opts.ExcludedKeys))
	for _, k := range opts.ExcludedKeys {
		excluded[k] = struct{}{}
	}
	scale := math.Pow10(opts.Precision)
	return canonicalize(v, excluded, scale)
}

func canonicalize(v Value, excluded map[string]struct{}, scale float64) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Number:
		return Number(quantize(float64(val), scale))
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = canonicalize(elem, excluded, scale)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			if _, skip := excluded[k]; skip {
				continue
			}
			out[k] = canonicalize(elem, excluded, scale)
		}
		return out
	default:
		return v
	}
}

// Quantize rounds x to precision fractional digits: round(x*10^p)/10^p.
func Quantize(x float64, precision int) float64 {
	return quantize(x, math.Pow10(precision))
}

func quantize(x, scale float64) float64 {
	scaled := x * scale
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) || math.Abs(scaled) >= quantizeLimit {
		return x
	}
	q := math.Round(scaled) / scale
	if q == 0 {
		// Collapse -0 so it cannot differ from 0 in equality or output.
		return 0
	}
	return q
}
