package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/mathdiff/internal/config"
	"github.com/roach88/mathdiff/internal/harness"
	"github.com/roach88/mathdiff/internal/report"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigFlags
	SummaryOnly bool

	// Clock allows overriding the timing clock (for testing).
	// If nil, defaults to the system clock.
	Clock harness.Clock

	// IDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator harness.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <corpus> [start] [end]",
		Short: "Compare both renderers over a corpus",
		Long: `Render every expression of a corpus with the reference and the candidate
implementation and classify each one as MATCH, FAIL or ERROR.

The corpus has one expression per line. Blank lines and lines starting with
# are skipped. start and end select an inclusive, 1-based line range.

Exit codes:
  0  no input diverged (renderer errors alone do not fail a run)
  1  at least one input diverged
  2  invalid arguments, configuration or corpus

Example:
  mathdiff run corpus.txt
  mathdiff run corpus.txt 10 20 --mode tree
  mathdiff run --config mathdiff.yaml --summary-only --format json corpus.txt`,
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorpus(opts, args, cmd)
		},
	}

	opts.ConfigFlags.register(cmd, true)
	cmd.Flags().BoolVar(&opts.SummaryOnly, "summary-only", false, "print only the summary")

	return cmd
}

func runCorpus(opts *RunOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	// Everything below is checked before any renderer starts.
	rng, err := parseRange(args[1:])
	if err != nil {
		return commandError(f, "invalid line range", err)
	}

	cfg, err := opts.load(cmd)
	if err != nil {
		return commandError(f, "invalid configuration", err)
	}

	source, err := harness.LoadCorpus(args[0])
	if err != nil {
		return commandError(f, "cannot load corpus", err)
	}
	if err := rng.Validate(len(harness.Lines(source))); err != nil {
		return commandError(f, "invalid line range", err)
	}
	inputs := harness.SelectWith(source, harness.SelectOptions{Range: rng, Dedupe: cfg.Dedupe})

	ref, cand, err := opts.renderers(cfg)
	if err != nil {
		return commandError(f, "cannot start renderers", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	f.VerboseLog("selected %d inputs from %s", len(inputs), args[0])

	runner := harness.NewRunner(ref, cand, harness.RunnerOptions{
		Mode:     cfg.RenderMode(),
		Parallel: cfg.Parallel,
		Clock:    opts.Clock,
	})
	comparator := cfg.Comparator()
	agg := harness.NewAggregator(harness.AggregatorOptions{
		Comparator:       &comparator,
		Mode:             cfg.RenderMode(),
		ExcludeColdStart: cfg.ExcludeColdStart,
		IDGenerator:      opts.IDGenerator,
	})

	ctx, stop := signalContext(cmd)
	defer stop()

	summary := harness.New(runner, agg, newReporter(f, cfg, opts.SummaryOnly), logger).Run(ctx, inputs)

	if !summary.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d inputs diverged", summary.Fail, summary.Total))
	}
	return nil
}

// parseRange parses the optional start and end line arguments.
func parseRange(args []string) (harness.Range, error) {
	var bounds [2]int
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return harness.Range{}, &harness.ConfigurationError{
				Code:    harness.ErrCodeInvalidRange,
				Message: fmt.Sprintf("line number %q is not an integer", arg),
			}
		}
		if n < 1 {
			return harness.Range{}, &harness.ConfigurationError{
				Code:    harness.ErrCodeInvalidRange,
				Message: fmt.Sprintf("line number %d must be at least 1", n),
			}
		}
		bounds[i] = n
	}
	return harness.Range{Start: bounds[0], End: bounds[1]}, nil
}

func newReporter(f *OutputFormatter, cfg *config.Config, summaryOnly bool) harness.Reporter {
	ro := report.Options{
		ReferenceName: cfg.Reference.Name,
		CandidateName: cfg.Candidate.Name,
		SummaryOnly:   summaryOnly,
	}
	if f.Format == "json" {
		return report.NewJSON(f.Success, ro)
	}
	return report.NewText(f.Writer, ro)
}

// newLogger returns a text logger on w: debug level when verbose, info
// otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// signalContext derives a context from the command's that is cancelled on
// SIGINT or SIGTERM. Cancellation reaches the renderer subprocesses.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	// Use command's context if available (for testing), otherwise create one
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
