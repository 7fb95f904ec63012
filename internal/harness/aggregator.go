package harness

import (
	"sync"

	"github.com/roach88/mathdiff/internal/diff"
	"github.com/roach88/mathdiff/internal/render"
	"github.com/roach88/mathdiff/internal/stats"
)

// Category is the classification of one input.
type Category string

const (
	// CategoryMatch means both sides succeeded with equivalent output.
	CategoryMatch Category = "MATCH"

	// CategoryFail means both sides succeeded but the outputs differ.
	CategoryFail Category = "FAIL"

	// CategoryError means at least one side failed.
	CategoryError Category = "ERROR"
)

// Record is the aggregator's verdict for one input.
type Record struct {
	Input     Input
	Reference Sample
	Candidate Sample
	Category  Category

	// Comparison is set for MATCH and FAIL records.
	Comparison diff.Result
}

// Summary is the final state of a run.
type Summary struct {
	RunID string      `json:"run_id"`
	Mode  render.Mode `json:"mode"`

	Pass   int `json:"pass"`
	Fail   int `json:"fail"`
	Errors int `json:"errors"`
	Total  int `json:"total"`

	// Per-side failure counts. An input where both sides fail counts once
	// in Errors and once in each of these.
	ReferenceFailures int `json:"reference_failures"`
	CandidateFailures int `json:"candidate_failures"`

	// Elapsed milliseconds per successful input, in processing order.
	ReferenceTimes []float64 `json:"reference_times_ms"`
	CandidateTimes []float64 `json:"candidate_times_ms"`

	Reference stats.Summary `json:"reference_stats"`
	Candidate stats.Summary `json:"candidate_stats"`

	// ColdStartExcluded records that the first sample of each sequence was
	// left out of the statistics.
	ColdStartExcluded bool `json:"cold_start_excluded,omitempty"`
}

// OK reports whether no input was classified FAIL.
func (s Summary) OK() bool { return s.Fail == 0 }

// AggregatorOptions configures an Aggregator.
type AggregatorOptions struct {
	// Comparator decides MATCH versus FAIL. Defaults to diff.NewComparator.
	Comparator *diff.Comparator

	// Mode is recorded on the summary.
	Mode render.Mode

	// ExcludeColdStart drops the first sample of each timing sequence from
	// the statistics. The sequences themselves keep every sample.
	ExcludeColdStart bool

	// IDGenerator assigns the run ID. Defaults to UUIDv7Generator.
	IDGenerator IDGenerator
}

// Aggregator accumulates per-input results into a Summary.
//
// Thread-safety: Record and Finalize are safe for concurrent use.
type Aggregator struct {
	mu         sync.Mutex
	opts       AggregatorOptions
	comparator diff.Comparator
	sum        Summary
}

// NewAggregator creates an aggregator and assigns the run ID.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.IDGenerator == nil {
		opts.IDGenerator = UUIDv7Generator{}
	}
	comparator := diff.NewComparator()
	if opts.Comparator != nil {
		comparator = *opts.Comparator
	}
	return &Aggregator{
		opts:       opts,
		comparator: comparator,
		sum: Summary{
			RunID:          opts.IDGenerator.Generate(),
			Mode:           opts.Mode,
			ReferenceTimes: []float64{},
			CandidateTimes: []float64{},
		},
	}
}

// RunID returns the identifier of this run.
func (a *Aggregator) RunID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sum.RunID
}

// Record classifies one input and updates the counters and timing sequences.
func (a *Aggregator) Record(in Input, ref, cand Sample) Record {
	rec := Record{Input: in, Reference: ref, Candidate: cand}

	refOK, candOK := ref.Outcome.OK(), cand.Outcome.OK()
	if refOK && candOK {
		rec.Comparison = Compare(a.comparator, ref.Outcome.Output(), cand.Outcome.Output())
		rec.Category = CategoryFail
		if rec.Comparison.Match {
			rec.Category = CategoryMatch
		}
	} else {
		rec.Category = CategoryError
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sum.Total++
	switch rec.Category {
	case CategoryMatch:
		a.sum.Pass++
	case CategoryFail:
		a.sum.Fail++
	case CategoryError:
		a.sum.Errors++
		if !refOK {
			a.sum.ReferenceFailures++
		}
		if !candOK {
			a.sum.CandidateFailures++
		}
		return rec
	}

	a.sum.ReferenceTimes = append(a.sum.ReferenceTimes, ref.Millis())
	a.sum.CandidateTimes = append(a.sum.CandidateTimes, cand.Millis())
	return rec
}

// RecordPair is Record for a Pair produced by Runner.Invoke.
func (a *Aggregator) RecordPair(p Pair) Record {
	return a.Record(p.Input, p.Reference, p.Candidate)
}

// Finalize returns a snapshot of the run with statistics computed. It may
// be called more than once.
func (a *Aggregator) Finalize() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.sum
	s.ReferenceTimes = append([]float64{}, a.sum.ReferenceTimes...)
	s.CandidateTimes = append([]float64{}, a.sum.CandidateTimes...)
	s.ColdStartExcluded = a.opts.ExcludeColdStart

	s.Reference = stats.Describe(a.statSamples(s.ReferenceTimes))
	s.Candidate = stats.Describe(a.statSamples(s.CandidateTimes))
	return s
}

func (a *Aggregator) statSamples(times []float64) []float64 {
	if a.opts.ExcludeColdStart && len(times) > 0 {
		return times[1:]
	}
	return times
}
