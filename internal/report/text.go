// Package report renders harness results for people and for machines.
//
// Text writes a detail block per input followed by a summary. JSON collects
// the run into a single RunReport document handed to an emit function once the
// summary is known.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/mathdiff/internal/diff"
	"github.com/roach88/mathdiff/internal/harness"
	"github.com/roach88/mathdiff/internal/stats"
)

// Options configures a reporter.
type Options struct {
	// ReferenceName and CandidateName label the two sides.
	// Default to "reference" and "candidate".
	ReferenceName string
	CandidateName string

	// SummaryOnly suppresses per-input output.
	SummaryOnly bool
}

func (o Options) withDefaults() Options {
	if o.ReferenceName == "" {
		o.ReferenceName = "reference"
	}
	if o.CandidateName == "" {
		o.CandidateName = "candidate"
	}
	return o
}

// labelWidth is the width of the widest "name:" label.
func (o Options) labelWidth() int {
	return max(len(o.ReferenceName), len(o.CandidateName)) + 1
}

// Text is a harness.Reporter that writes a human-readable report.
type Text struct {
	w    io.Writer
	opts Options
}

// NewText creates a text reporter writing to w.
func NewText(w io.Writer, opts Options) *Text {
	return &Text{w: w, opts: opts.withDefaults()}
}

// Input writes the detail block for one input.
func (t *Text) Input(rec harness.Record) error {
	if t.opts.SummaryOnly {
		return nil
	}
	p := &printer{w: t.w}

	p.printf("========== Line %d ==========\n", rec.Input.Line)
	p.printf("Formula: %s\n\n", rec.Input.Text)
	t.side(p, t.opts.ReferenceName, rec.Reference)
	t.side(p, t.opts.CandidateName, rec.Candidate)

	switch rec.Category {
	case harness.CategoryMatch:
		p.printf("MATCH\n")
	case harness.CategoryFail:
		p.printf("MISMATCH\n")
		if rec.Comparison.Text != nil {
			t.textDivergence(p, rec.Comparison.Text)
		}
		if rec.Comparison.Tree != nil {
			t.treeDivergence(p, rec.Comparison.Tree)
		}
	case harness.CategoryError:
		p.printf("ERROR\n")
		if !rec.Reference.Outcome.OK() {
			p.printf("  %s failed: %s\n", t.opts.ReferenceName, rec.Reference.Outcome.Message())
		}
		if !rec.Candidate.Outcome.OK() {
			p.printf("  %s failed: %s\n", t.opts.CandidateName, rec.Candidate.Outcome.Message())
		}
	}
	p.printf("\n")
	return p.err
}

func (t *Text) side(p *printer, name string, s harness.Sample) {
	p.printf("--- %s (%.2fms) ---\n", name, s.Millis())
	if s.Outcome.OK() {
		p.printf("%s\n\n", s.Outcome.String())
		return
	}
	p.printf("ERROR: %s\n\n", s.Outcome.Message())
}

func (t *Text) textDivergence(p *printer, d *diff.TextDivergence) {
	w := t.opts.labelWidth()
	p.printf("  First difference at position %d:\n", d.Position)
	p.printf("  %-*s ...%s...\n", w, t.opts.ReferenceName+":", d.Reference)
	p.printf("  %-*s ...%s...\n", w, t.opts.CandidateName+":", d.Candidate)
	// Align the marker under the window text.
	p.printf("%s%s\n", strings.Repeat(" ", w+6), d.Marker)
}

func (t *Text) treeDivergence(p *printer, d *diff.TreeDivergence) {
	p.printf("  Digests: %s=%s %s=%s\n",
		t.opts.ReferenceName, d.ReferenceDigest,
		t.opts.CandidateName, d.CandidateDigest)
	for _, difference := range d.Differences {
		for _, line := range strings.Split(difference.String(), "\n") {
			p.printf("  %s\n", line)
		}
	}
	if d.Truncated {
		p.printf("  (more differences not shown)\n")
	}
}

// Summary writes the totals and timing statistics.
func (t *Text) Summary(s harness.Summary) error {
	p := &printer{w: t.w}

	p.printf("========== Summary ==========\n")
	p.printf("  Pass:   %d\n", s.Pass)
	p.printf("  Fail:   %d\n", s.Fail)
	if s.Errors > 0 {
		p.printf("  Errors: %d\n", s.Errors)
	}
	p.printf("  Total:  %d\n", s.Total)
	p.printf("  Run ID: %s\n", s.RunID)

	if s.ColdStartExcluded {
		p.printf("  Timing (ms, first sample excluded):\n")
	} else {
		p.printf("  Timing (ms):\n")
	}
	w := t.opts.labelWidth()
	t.timing(p, w, t.opts.ReferenceName, s.Reference)
	t.timing(p, w, t.opts.CandidateName, s.Candidate)
	return p.err
}

func (t *Text) timing(p *printer, width int, name string, st stats.Summary) {
	p.printf("    %-*s n=%d mean=%.2f median=%.2f p95=%.2f min=%.2f max=%.2f stddev=%.2f\n",
		width, name+":", st.Count, st.Mean, st.Median, st.P95, st.Min, st.Max, st.StdDev)
}

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
