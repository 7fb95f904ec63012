// Package render defines the boundary between the harness and the two
// rendering implementations under test.
//
// A Renderer turns one markup expression into either a parse tree or an HTML
// string. Implementations are opaque: the harness only sees an Output or an
// error. Two adapters are provided: Process, which runs an external command
// per invocation, and Func, which wraps a Go function.
package render

import (
	"context"
	"fmt"

	"github.com/roach88/mathdiff/internal/tree"
)

// Mode selects which artifact a renderer produces.
type Mode string

const (
	// ModeTree asks for the parse tree.
	ModeTree Mode = "tree"
	// ModeHTML asks for the rendered HTML string.
	ModeHTML Mode = "html"
)

// ValidModes lists the accepted mode names.
var ValidModes = []Mode{ModeTree, ModeHTML}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range ValidModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %v", s, ValidModes)
}

// Output is the artifact of one successful render. Exactly one of Tree and
// HTML is meaningful, selected by the Mode it was produced for.
type Output struct {
	Mode Mode
	Tree tree.Value
	HTML string
}

// TreeOutput wraps a parse tree.
func TreeOutput(v tree.Value) Output {
	return Output{Mode: ModeTree, Tree: v}
}

// HTMLOutput wraps an HTML string.
func HTMLOutput(s string) Output {
	return Output{Mode: ModeHTML, HTML: s}
}

// String returns the HTML, or the canonical JSON of the tree.
func (o Output) String() string {
	if o.Mode == ModeTree {
		return tree.CanonicalString(o.Tree)
	}
	return o.HTML
}

// Renderer renders markup expressions.
// Render must be safe to call from multiple goroutines.
type Renderer interface {
	Name() string
	Render(ctx context.Context, expr string, mode Mode) (Output, error)
}

// RenderFunc is the signature adapted by Func.
type RenderFunc func(ctx context.Context, expr string, mode Mode) (Output, error)

// Func adapts a Go function to the Renderer interface.
type Func struct {
	name string
	fn   RenderFunc
}

// NewFunc returns a Renderer named name that delegates to fn.
func NewFunc(name string, fn RenderFunc) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the renderer name.
func (f *Func) Name() string { return f.name }

// Render calls the wrapped function.
func (f *Func) Render(ctx context.Context, expr string, mode Mode) (Output, error) {
	return f.fn(ctx, expr, mode)
}
