package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mathdiff/internal/harness"
)

// MinimizeOptions holds flags for the minimize command.
type MinimizeOptions struct {
	*RootOptions
	ConfigFlags
}

// MinimizeResult is the output of the minimize command.
type MinimizeResult struct {
	harness.Minimization
	Mode string `json:"mode"`
}

// String renders the result for text output.
func (r MinimizeResult) String() string {
	if !r.Reproduced {
		return fmt.Sprintf("no divergence in %s mode; nothing to minimize", r.Mode)
	}
	return fmt.Sprintf("Original  (%d tokens): %s\nMinimized (%d tokens): %s",
		r.OriginalTokens, r.Original, r.MinimizedTokens, r.Minimized)
}

// NewMinimizeCommand creates the minimize command.
func NewMinimizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MinimizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "minimize <expression>",
		Short: "Shrink a diverging expression",
		Long: `Greedily remove tokens from an expression while both renderers still
succeed and still disagree, and print the smallest expression found.

Tokens are control words such as \frac, control symbols such as \{, runs of
whitespace and single characters. An expression on which the renderers
agree (or fail) is reported unchanged.

Example:
  mathdiff minimize '\frac{a}{b} + \sqrt{x}'
  mathdiff minimize --mode tree --config mathdiff.yaml 'x^{2}_{i}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinimize(opts, args[0], cmd)
		},
	}

	opts.ConfigFlags.register(cmd, false)

	return cmd
}

func runMinimize(opts *MinimizeOptions, expr string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.load(cmd)
	if err != nil {
		return commandError(f, "invalid configuration", err)
	}
	ref, cand, err := opts.renderers(cfg)
	if err != nil {
		return commandError(f, "cannot start renderers", err)
	}

	runner := harness.NewRunner(ref, cand, harness.RunnerOptions{
		Mode:     cfg.RenderMode(),
		Parallel: cfg.Parallel,
	})
	comparator := cfg.Comparator()

	ctx, stop := signalContext(cmd)
	defer stop()

	m := harness.Minimize(ctx, expr, func(ctx context.Context, candidate string) bool {
		disagrees := runner.Disagrees(ctx, candidate, comparator)
		f.VerboseLog("tried %q: disagrees=%t", candidate, disagrees)
		return disagrees
	})

	return f.Success(MinimizeResult{Minimization: m, Mode: cfg.Mode})
}
