package harness

import (
	"context"
	"io"
	"log/slog"
)

// Reporter receives results as the run progresses.
type Reporter interface {
	// Input is called once per input, in processing order.
	Input(rec Record) error

	// Summary is called once, after the last input.
	Summary(s Summary) error
}

// Harness drives a run: it feeds each input through the runner, records the
// pair with the aggregator and forwards results to the reporter.
type Harness struct {
	runner     *Runner
	aggregator *Aggregator
	reporter   Reporter
	logger     *slog.Logger
}

// New creates a harness. A nil reporter discards results; a nil logger
// discards logs.
func New(runner *Runner, aggregator *Aggregator, reporter Reporter, logger *slog.Logger) *Harness {
	if reporter == nil {
		reporter = discardReporter{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{
		runner:     runner,
		aggregator: aggregator,
		reporter:   reporter,
		logger:     logger,
	}
}

// Run processes inputs sequentially in the order given and returns the
// final summary.
//
// Run never stops early: renderer failures are recorded as ERROR and
// reporter failures are logged. Context cancellation is not checked between
// inputs; ctx only reaches the renderers, which use it for their own
// timeouts.
func (h *Harness) Run(ctx context.Context, inputs []Input) Summary {
	runID := h.aggregator.RunID()
	h.logger.Info("run started",
		"run_id", runID,
		"inputs", len(inputs),
		"mode", h.runner.Mode(),
		"reference", h.runner.Reference().Name(),
		"candidate", h.runner.Candidate().Name(),
	)

	for _, in := range inputs {
		pair := h.runner.Invoke(ctx, in)
		rec := h.aggregator.RecordPair(pair)

		h.logger.Debug("input processed",
			"line", in.Line,
			"category", rec.Category,
			"reference_ms", pair.Reference.Millis(),
			"candidate_ms", pair.Candidate.Millis(),
		)
		if rec.Category == CategoryError {
			h.logger.Debug("render failure",
				"line", in.Line,
				"reference_error", pair.Reference.Outcome.Message(),
				"candidate_error", pair.Candidate.Outcome.Message(),
			)
		}

		if err := h.reporter.Input(rec); err != nil {
			h.logger.Warn("report input failed", "line", in.Line, "error", err)
		}
	}

	summary := h.aggregator.Finalize()
	h.logger.Info("run finished",
		"run_id", runID,
		"pass", summary.Pass,
		"fail", summary.Fail,
		"errors", summary.Errors,
		"total", summary.Total,
	)

	if err := h.reporter.Summary(summary); err != nil {
		h.logger.Warn("report summary failed", "error", err)
	}
	return summary
}

type discardReporter struct{}

func (discardReporter) Input(Record) error   { return nil }
func (discardReporter) Summary(Summary) error { return nil }
