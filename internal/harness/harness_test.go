package harness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mathdiff/internal/render"
	"github.com/roach88/mathdiff/internal/testutil"
)

// recordingReporter keeps everything it is given.
type recordingReporter struct {
	records  []Record
	summary  *Summary
	inputErr error
}

func (r *recordingReporter) Input(rec Record) error {
	r.records = append(r.records, rec)
	return r.inputErr
}

func (r *recordingReporter) Summary(s Summary) error {
	r.summary = &s
	return nil
}

func newTestHarness(ref, cand render.Renderer, mode render.Mode, rep Reporter) *Harness {
	runner := NewRunner(ref, cand, RunnerOptions{
		Mode:  mode,
		Clock: testutil.NewStepClock(time.Millisecond),
	})
	agg := NewAggregator(AggregatorOptions{
		Mode:        mode,
		IDGenerator: testutil.NewFixedIDGenerator(""),
	})
	return New(runner, agg, rep, nil)
}

func TestHarnessIdenticalImplementations(t *testing.T) {
	inputs := Select("E=mc^2\nx+y=z\n", Range{})

	for _, mode := range render.ValidModes {
		t.Run(string(mode), func(t *testing.T) {
			rep := &recordingReporter{}
			h := newTestHarness(testutil.EchoRenderer("ref", 0), testutil.EchoRenderer("cand", 7), mode, rep)

			s := h.Run(context.Background(), inputs)

			assert.Equal(t, 2, s.Pass)
			assert.Equal(t, 0, s.Fail)
			assert.Equal(t, 0, s.Errors)
			assert.Equal(t, 2, s.Total)
			assert.True(t, s.OK())
			assert.Equal(t, []float64{1, 1}, s.ReferenceTimes)

			require.Len(t, rep.records, 2)
			assert.Equal(t, 1, rep.records[0].Input.Line)
			assert.Equal(t, 2, rep.records[1].Input.Line)
			require.NotNil(t, rep.summary)
			assert.Equal(t, s, *rep.summary)
		})
	}
}

func TestHarnessTrailingCharacterDifference(t *testing.T) {
	inputs := Select("E=mc^2\nx+y=z\n", Range{})
	cand := testutil.NewScriptedRenderer("cand", map[string]testutil.Script{
		"x+y=z": {HTML: testutil.EchoHTML("x+y=z") + " "},
	}, testutil.EchoRenderer("cand", 0))
	rep := &recordingReporter{}

	s := newTestHarness(testutil.EchoRenderer("ref", 0), cand, render.ModeHTML, rep).Run(context.Background(), inputs)

	assert.Equal(t, 1, s.Pass)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 0, s.Errors)
	assert.False(t, s.OK())

	require.Len(t, rep.records, 2)
	assert.Equal(t, CategoryFail, rep.records[1].Category)
	div := rep.records[1].Comparison.Text
	require.NotNil(t, div)
	assert.Equal(t, len([]rune(testutil.EchoHTML("x+y=z"))), div.Position, "prefix case diverges at the shorter length")
}

func TestHarnessErrorIsolation(t *testing.T) {
	inputs := Select("a\nb\nc\n", Range{})
	ref := testutil.NewScriptedRenderer("ref", map[string]testutil.Script{
		"b": {Panic: "stack overflow"},
	}, testutil.EchoRenderer("ref", 0))
	rep := &recordingReporter{}

	s := newTestHarness(ref, testutil.EchoRenderer("cand", 0), render.ModeHTML, rep).Run(context.Background(), inputs)

	assert.Equal(t, 2, s.Pass)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 1, s.ReferenceFailures)
	assert.Len(t, s.ReferenceTimes, 2)
	assert.True(t, s.OK(), "errors alone do not fail the run")
	require.Len(t, rep.records, 3)
	assert.Equal(t, CategoryError, rep.records[1].Category)
	assert.Equal(t, CategoryMatch, rep.records[2].Category, "processing continues after a failure")
}

func TestHarnessIgnoresReporterErrors(t *testing.T) {
	rep := &recordingReporter{inputErr: errors.New("broken pipe")}
	h := newTestHarness(testutil.EchoRenderer("ref", 0), testutil.EchoRenderer("cand", 0), render.ModeHTML, rep)

	s := h.Run(context.Background(), Select("a\nb\n", Range{}))

	assert.Equal(t, 2, s.Total)
	assert.Len(t, rep.records, 2)
}

func TestHarnessDoesNotStopOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newTestHarness(testutil.EchoRenderer("ref", 0), testutil.EchoRenderer("cand", 0), render.ModeHTML, nil)
	s := h.Run(ctx, Select("a\nb\nc\n", Range{}))

	assert.Equal(t, 3, s.Total)
}

func TestHarnessEmptyInput(t *testing.T) {
	rep := &recordingReporter{}
	h := newTestHarness(testutil.EchoRenderer("ref", 0), testutil.EchoRenderer("cand", 0), render.ModeHTML, rep)

	s := h.Run(context.Background(), nil)

	assert.Zero(t, s.Total)
	assert.Empty(t, rep.records)
	require.NotNil(t, rep.summary, "summary is always reported")
}
