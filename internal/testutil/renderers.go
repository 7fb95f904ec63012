package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/mathdiff/internal/render"
	"github.com/roach88/mathdiff/internal/tree"
)

// EchoRenderer renders every expression deterministically: HTML wraps the
// expression in a span and the tree is a single mathord node whose loc is
// offset by locShift. Two echo renderers with different shifts therefore
// agree after canonicalization.
func EchoRenderer(name string, locShift int) *render.Func {
	return render.NewFunc(name, func(_ context.Context, expr string, mode render.Mode) (render.Output, error) {
		if mode == render.ModeTree {
			return render.TreeOutput(EchoTree(expr, locShift)), nil
		}
		return render.HTMLOutput(EchoHTML(expr)), nil
	})
}

// EchoHTML is the HTML produced by EchoRenderer for expr.
func EchoHTML(expr string) string {
	return `<span class="katex">` + expr + `</span>`
}

// EchoTree is the tree produced by EchoRenderer for expr.
func EchoTree(expr string, locShift int) tree.Value {
	return tree.Array{tree.Object{
		"type": tree.String("mathord"),
		"mode": tree.String("math"),
		"text": tree.String(expr),
		"loc": tree.Object{
			"start": tree.Number(locShift),
			"end":   tree.Number(locShift + len(expr)),
		},
	}}
}

// Script is a scripted response for one expression.
type Script struct {
	HTML  string
	Tree  tree.Value
	Err   string
	Panic any
}

// ScriptedRenderer answers from a fixed table and falls back to fallback
// for unscripted expressions. It counts calls per expression.
type ScriptedRenderer struct {
	name     string
	scripts  map[string]Script
	fallback render.Renderer

	mu    sync.Mutex
	calls map[string]int
}

// NewScriptedRenderer creates a scripted renderer. A nil fallback makes
// unscripted expressions fail.
func NewScriptedRenderer(name string, scripts map[string]Script, fallback render.Renderer) *ScriptedRenderer {
	return &ScriptedRenderer{
		name:     name,
		scripts:  scripts,
		fallback: fallback,
		calls:    make(map[string]int),
	}
}

// Name returns the renderer name.
func (r *ScriptedRenderer) Name() string { return r.name }

// Render returns the scripted response for expr.
func (r *ScriptedRenderer) Render(ctx context.Context, expr string, mode render.Mode) (render.Output, error) {
	r.mu.Lock()
	r.calls[expr]++
	r.mu.Unlock()

	s, ok := r.scripts[expr]
	if !ok {
		if r.fallback == nil {
			return render.Output{}, fmt.Errorf("no script for %q", expr)
		}
		return r.fallback.Render(ctx, expr, mode)
	}

	switch {
	case s.Panic != nil:
		panic(s.Panic)
	case s.Err != "":
		return render.Output{}, errors.New(s.Err)
	case mode == render.ModeTree:
		return render.TreeOutput(s.Tree), nil
	default:
		return render.HTMLOutput(s.HTML), nil
	}
}

// Calls returns how many times expr was rendered.
func (r *ScriptedRenderer) Calls(expr string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[expr]
}

// TotalCalls returns the number of Render calls.
func (r *ScriptedRenderer) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}
