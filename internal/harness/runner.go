package harness

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/roach88/mathdiff/internal/diff"
	"github.com/roach88/mathdiff/internal/render"
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Mode selects tree or HTML output. Defaults to HTML.
	Mode render.Mode

	// Parallel invokes both renderers concurrently for each input.
	Parallel bool

	// Clock measures elapsed time. Defaults to SystemClock.
	Clock Clock
}

// Runner invokes the reference and candidate renderers on one input.
type Runner struct {
	reference render.Renderer
	candidate render.Renderer
	mode      render.Mode
	parallel  bool
	clock     Clock
}

// NewRunner creates a runner for the given renderer pair.
func NewRunner(reference, candidate render.Renderer, opts RunnerOptions) *Runner {
	if opts.Mode == "" {
		opts.Mode = render.ModeHTML
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	return &Runner{
		reference: reference,
		candidate: candidate,
		mode:      opts.Mode,
		parallel:  opts.Parallel,
		clock:     opts.Clock,
	}
}

// Mode returns the output mode the runner requests.
func (r *Runner) Mode() render.Mode { return r.mode }

// Reference returns the reference renderer.
func (r *Runner) Reference() render.Renderer { return r.reference }

// Candidate returns the candidate renderer.
func (r *Runner) Candidate() render.Renderer { return r.candidate }

// Invoke renders in with both implementations. Renderer errors and panics
// become Failure outcomes; Invoke itself never fails.
func (r *Runner) Invoke(ctx context.Context, in Input) Pair {
	p := Pair{Input: in}
	if !r.parallel {
		p.Reference = r.invoke(ctx, r.reference, in.Text)
		p.Candidate = r.invoke(ctx, r.candidate, in.Text)
		return p
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.Reference = r.invoke(ctx, r.reference, in.Text)
	}()
	go func() {
		defer wg.Done()
		p.Candidate = r.invoke(ctx, r.candidate, in.Text)
	}()
	wg.Wait()
	return p
}

func (r *Runner) invoke(ctx context.Context, rr render.Renderer, expr string) (s Sample) {
	start := r.clock.Now()
	defer func() {
		if v := recover(); v != nil {
			s.Outcome = Failure(fmt.Sprintf("panic: %v", v))
		}
		s.Elapsed = r.clock.Now().Sub(start)
	}()

	out, err := rr.Render(ctx, expr, r.mode)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "render failed"
		}
		s.Outcome = Failure(msg)
		return s
	}
	s.Outcome = Success(out)
	return s
}

// Disagrees reports whether both implementations render expr successfully
// and the outputs differ under c. Blank expressions never disagree.
func (r *Runner) Disagrees(ctx context.Context, expr string, c diff.Comparator) bool {
	if strings.TrimSpace(expr) == "" {
		return false
	}
	p := r.Invoke(ctx, Input{Text: expr})
	if !p.Reference.Outcome.OK() || !p.Candidate.Outcome.OK() {
		return false
	}
	return !Compare(c, p.Reference.Outcome.Output(), p.Candidate.Outcome.Output()).Match
}

// Compare compares two outputs: trees structurally after canonicalization,
// HTML as text.
func Compare(c diff.Comparator, ref, cand render.Output) diff.Result {
	if ref.Mode == render.ModeTree && cand.Mode == render.ModeTree {
		return c.Trees(ref.Tree, cand.Tree)
	}
	return c.Text(ref.String(), cand.String())
}
