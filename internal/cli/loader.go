package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mathdiff/internal/config"
	"github.com/roach88/mathdiff/internal/harness"
	"github.com/roach88/mathdiff/internal/render"
)

// ConfigFlags are the flags shared by commands that drive renderers.
// A flag given on the command line overrides the configuration file.
type ConfigFlags struct {
	Path             string
	ReferenceCmd     string
	CandidateCmd     string
	Mode             string
	Parallel         bool
	ExcludeColdStart bool
	Dedupe           bool
}

// register adds the flags to cmd. runOnly adds the flags that only
// affect corpus runs.
func (f *ConfigFlags) register(cmd *cobra.Command, runOnly bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.Path, "config", "c", "", "path to a YAML configuration file")
	flags.StringVar(&f.ReferenceCmd, "reference-cmd", "", "reference renderer command, split on whitespace")
	flags.StringVar(&f.CandidateCmd, "candidate-cmd", "", "candidate renderer command, split on whitespace")
	flags.StringVarP(&f.Mode, "mode", "m", "", "output mode to compare (tree|html)")
	flags.BoolVar(&f.Parallel, "parallel", false, "invoke both renderers concurrently")
	if runOnly {
		flags.BoolVar(&f.ExcludeColdStart, "exclude-cold-start", false, "leave the first sample out of timing statistics")
		flags.BoolVar(&f.Dedupe, "dedupe", false, "skip inputs whose text already appeared")
	}
}

// load resolves the configuration: the file (if any) over the defaults,
// then command-line overrides, then validation.
func (f *ConfigFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if f.Path != "" {
		loaded, err := config.Load(f.Path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("reference-cmd") {
		cfg.Reference.Command = strings.Fields(f.ReferenceCmd)
	}
	if changed("candidate-cmd") {
		cfg.Candidate.Command = strings.Fields(f.CandidateCmd)
	}
	if changed("mode") {
		cfg.Mode = f.Mode
	}
	if changed("parallel") {
		cfg.Parallel = f.Parallel
	}
	if changed("exclude-cold-start") {
		cfg.ExcludeColdStart = f.ExcludeColdStart
	}
	if changed("dedupe") {
		cfg.Dedupe = f.Dedupe
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// renderers builds the reference and candidate renderers for cfg.
func (o *RootOptions) renderers(cfg *config.Config) (ref, cand render.Renderer, err error) {
	factory := o.NewRenderer
	if factory == nil {
		factory = newProcessRenderer
	}

	build := func(r config.Renderer) (render.Renderer, error) {
		pc, err := cfg.ProcessConfig(r)
		if err != nil {
			return nil, err
		}
		return factory(pc)
	}

	if ref, err = build(cfg.Reference); err != nil {
		return nil, nil, err
	}
	if cand, err = build(cfg.Candidate); err != nil {
		return nil, nil, err
	}
	return ref, cand, nil
}

func newProcessRenderer(cfg render.ProcessConfig) (render.Renderer, error) {
	p, err := render.NewProcess(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// commandError converts a setup failure into an ExitError with exit code 2,
// reporting it through f first so JSON consumers see a structured error.
func commandError(f *OutputFormatter, message string, err error) error {
	code, details := errorCode(err)
	if f.Format == "json" {
		_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), details)
	}
	return WrapExitError(ExitCommandError, message, err)
}

// errorCode returns the stable code and details for err.
func errorCode(err error) (string, any) {
	var ce *config.Error
	if errors.As(err, &ce) {
		return ce.Code, ce
	}
	var he *harness.ConfigurationError
	if errors.As(err, &he) {
		return string(he.Code), map[string]string{"path": he.Path}
	}
	return ErrCodeCommand, nil
}

// ErrCodeCommand is reported for command errors without a more specific code.
const ErrCodeCommand = "E_COMMAND"
