package render

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/roach88/mathdiff/internal/tree"
)

//go:embed envelope.schema.json
var envelopeSchemaData []byte

const envelopeSchemaURL = "envelope.schema.json"

var (
	envelopeSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileEnvelopeSchema compiles the embedded schema once.
func compileEnvelopeSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(envelopeSchemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal envelope schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(envelopeSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add envelope schema resource: %w", err)
			return
		}

		envelopeSchema, err = compiler.Compile(envelopeSchemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile envelope schema: %w", err)
		}
	})
	return compileErr
}

// RenderError is a failure reported by the implementation itself through the
// envelope's error field, as opposed to a transport failure.
type RenderError struct {
	Renderer string
	Message  string
}

func (e *RenderError) Error() string {
	return e.Message
}

// DecodeEnvelope parses a response envelope and converts it to an Output for
// mode. Numbers are decoded without loss of precision before conversion.
func DecodeEnvelope(data []byte, mode Mode) (Output, error) {
	if err := compileEnvelopeSchema(); err != nil {
		return Output{}, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Output{}, fmt.Errorf("invalid JSON response: %w", err)
	}
	if err := envelopeSchema.Validate(doc); err != nil {
		return Output{}, fmt.Errorf("invalid response envelope: %w", err)
	}

	fields := doc.(map[string]any)
	if msg, ok := fields["error"].(string); ok {
		return Output{}, &RenderError{Message: msg}
	}

	switch mode {
	case ModeTree:
		raw, ok := fields["tree"]
		if !ok {
			return Output{}, errors.New("expected tree output, got html")
		}
		v, err := tree.FromAny(raw)
		if err != nil {
			return Output{}, fmt.Errorf("decode tree: %w", err)
		}
		return TreeOutput(v), nil
	case ModeHTML:
		html, ok := fields["html"].(string)
		if !ok {
			return Output{}, errors.New("expected html output, got tree")
		}
		return HTMLOutput(html), nil
	default:
		return Output{}, fmt.Errorf("invalid mode %q", mode)
	}
}
