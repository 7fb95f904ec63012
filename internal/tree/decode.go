package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Unmarshal decodes a single JSON document into a Value.
// Numbers are read through json.Number so no precision is lost before
// conversion to float64. Trailing data after the document is an error.
func Unmarshal(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode tree: trailing data after JSON document")
	}

	return FromAny(raw)
}

// FromAny converts a decoded Go value (as produced by encoding/json, YAML
// decoders or hand-built maps) into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", val.String(), err)
		}
		return Number(f), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			converted, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			converted, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// MustFromAny is FromAny for literals in tests and fixtures.
// Panics on unsupported types.
func MustFromAny(v any) Value {
	converted, err := FromAny(v)
	if err != nil {
		panic(fmt.Sprintf("tree.MustFromAny: %v", err))
	}
	return converted
}
