package harness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mathdiff/internal/diff"
	"github.com/roach88/mathdiff/internal/render"
	"github.com/roach88/mathdiff/internal/testutil"
	"github.com/roach88/mathdiff/internal/tree"
)

func TestRunnerInvokeSuccess(t *testing.T) {
	clock := testutil.NewStepClock(2 * time.Millisecond)
	r := NewRunner(testutil.EchoRenderer("ref", 0), testutil.EchoRenderer("cand", 0), RunnerOptions{Clock: clock})

	p := r.Invoke(context.Background(), Input{Line: 3, Text: "x"})

	assert.Equal(t, Input{Line: 3, Text: "x"}, p.Input)
	require.True(t, p.Reference.Outcome.OK())
	require.True(t, p.Candidate.Outcome.OK())
	assert.Equal(t, testutil.EchoHTML("x"), p.Reference.Outcome.Output().HTML)
	assert.Equal(t, 2*time.Millisecond, p.Reference.Elapsed)
	assert.Equal(t, 2.0, p.Candidate.Millis())
}

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner(testutil.EchoRenderer("ref", 0), testutil.EchoRenderer("cand", 0), RunnerOptions{})

	assert.Equal(t, render.ModeHTML, r.Mode())
	assert.Equal(t, "ref", r.Reference().Name())
	assert.Equal(t, "cand", r.Candidate().Name())
}

func TestRunnerCapturesErrorsAndPanics(t *testing.T) {
	failing := render.NewFunc("failing", func(context.Context, string, render.Mode) (render.Output, error) {
		return render.Output{}, errors.New("ParseError: Expected '}'")
	})
	panicking := render.NewFunc("panicking", func(context.Context, string, render.Mode) (render.Output, error) {
		panic("index out of range")
	})
	silent := render.NewFunc("silent", func(context.Context, string, render.Mode) (render.Output, error) {
		return render.Output{}, errors.New("")
	})

	clock := testutil.NewStepClock(time.Millisecond)
	for _, parallel := range []bool{false, true} {
		r := NewRunner(failing, panicking, RunnerOptions{Clock: clock, Parallel: parallel})

		p := r.Invoke(context.Background(), Input{Line: 1, Text: `\frac{a`})

		assert.False(t, p.Reference.Outcome.OK())
		assert.Equal(t, "ParseError: Expected '}'", p.Reference.Outcome.Message())
		assert.False(t, p.Candidate.Outcome.OK())
		assert.Equal(t, "panic: index out of range", p.Candidate.Outcome.Message())
		assert.Positive(t, p.Candidate.Elapsed, "elapsed is recorded for panics")
	}

	r := NewRunner(silent, silent, RunnerOptions{})
	p := r.Invoke(context.Background(), Input{Text: "x"})
	assert.Equal(t, "render failed", p.Reference.Outcome.Message())
}

func TestRunnerParallelMatchesSequential(t *testing.T) {
	ref := testutil.EchoRenderer("ref", 0)
	cand := testutil.NewScriptedRenderer("cand", map[string]testutil.Script{
		"y": {HTML: "<span>different</span>"},
	}, testutil.EchoRenderer("cand", 0))

	seq := NewRunner(ref, cand, RunnerOptions{})
	par := NewRunner(ref, cand, RunnerOptions{Parallel: true})

	for _, expr := range []string{"x", "y"} {
		a := seq.Invoke(context.Background(), Input{Text: expr})
		b := par.Invoke(context.Background(), Input{Text: expr})
		assert.Equal(t, a.Reference.Outcome, b.Reference.Outcome)
		assert.Equal(t, a.Candidate.Outcome, b.Candidate.Outcome)
	}
}

func TestRunnerDisagrees(t *testing.T) {
	ref := testutil.EchoRenderer("ref", 0)
	cand := testutil.NewScriptedRenderer("cand", map[string]testutil.Script{
		"diff": {HTML: "<span>other</span>"},
		"bad":  {Err: "boom"},
	}, testutil.EchoRenderer("cand", 0))
	r := NewRunner(ref, cand, RunnerOptions{})
	c := diff.NewComparator()
	ctx := context.Background()

	assert.True(t, r.Disagrees(ctx, "diff", c))
	assert.False(t, r.Disagrees(ctx, "same", c))
	assert.False(t, r.Disagrees(ctx, "bad", c), "a failure is not a disagreement")
	assert.False(t, r.Disagrees(ctx, "  ", c))
	assert.Zero(t, cand.Calls("  "), "blank input is never rendered")
}

func TestCompare(t *testing.T) {
	c := diff.NewComparator()

	res := Compare(c, render.HTMLOutput("abcXdef"), render.HTMLOutput("abcYdef"))
	require.False(t, res.Match)
	require.NotNil(t, res.Text)
	assert.Equal(t, 3, res.Text.Position)

	a := render.TreeOutput(testutil.EchoTree("x", 0))
	b := render.TreeOutput(testutil.EchoTree("x", 10))
	assert.True(t, Compare(c, a, b).Match, "loc differences are ignored")

	res = Compare(c, a, render.TreeOutput(tree.Array{}))
	require.False(t, res.Match)
	assert.NotNil(t, res.Tree)
}
