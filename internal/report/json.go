package report

import (
	"sync"

	"github.com/roach88/mathdiff/internal/diff"
	"github.com/roach88/mathdiff/internal/harness"
)

// RunReport is the machine-readable report of a run.
type RunReport struct {
	Reference string          `json:"reference"`
	Candidate string          `json:"candidate"`
	Summary   harness.Summary `json:"summary"`
	Inputs    []InputReport   `json:"inputs,omitempty"`
}

// InputReport is one input's entry in a RunReport.
type InputReport struct {
	Line      int              `json:"line"`
	Text      string           `json:"text"`
	Category  harness.Category `json:"category"`
	Reference SideReport       `json:"reference"`
	Candidate SideReport       `json:"candidate"`

	TextDivergence *diff.TextDivergence `json:"text_divergence,omitempty"`
	TreeDivergence *diff.TreeDivergence `json:"tree_divergence,omitempty"`
}

// SideReport is one implementation's result for an input.
// Exactly one of Output and Error is set.
type SideReport struct {
	Output    string  `json:"output,omitempty"`
	Error     string  `json:"error,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// NewInputReport converts a harness record.
func NewInputReport(rec harness.Record) InputReport {
	return InputReport{
		Line:           rec.Input.Line,
		Text:           rec.Input.Text,
		Category:       rec.Category,
		Reference:      newSideReport(rec.Reference),
		Candidate:      newSideReport(rec.Candidate),
		TextDivergence: rec.Comparison.Text,
		TreeDivergence: rec.Comparison.Tree,
	}
}

func newSideReport(s harness.Sample) SideReport {
	r := SideReport{ElapsedMS: s.Millis()}
	if s.Outcome.OK() {
		r.Output = s.Outcome.String()
	} else {
		r.Error = s.Outcome.Message()
	}
	return r
}

// EmitFunc receives the finished report.
type EmitFunc func(v any) error

// JSON is a harness.Reporter that buffers input reports and emits a single
// RunReport when the summary arrives.
//
// Thread-safety: Input and Summary are safe for concurrent use.
type JSON struct {
	emit EmitFunc
	opts Options

	mu     sync.Mutex
	inputs []InputReport
}

// NewJSON creates a JSON reporter that passes the finished RunReport to emit.
func NewJSON(emit EmitFunc, opts Options) *JSON {
	return &JSON{emit: emit, opts: opts.withDefaults()}
}

// Input buffers the record unless SummaryOnly is set.
func (j *JSON) Input(rec harness.Record) error {
	if j.opts.SummaryOnly {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inputs = append(j.inputs, NewInputReport(rec))
	return nil
}

// Summary emits the complete report.
func (j *JSON) Summary(s harness.Summary) error {
	j.mu.Lock()
	inputs := append([]InputReport(nil), j.inputs...)
	j.mu.Unlock()

	return j.emit(RunReport{
		Reference: j.opts.ReferenceName,
		Candidate: j.opts.CandidateName,
		Summary:   s,
		Inputs:    inputs,
	})
}
