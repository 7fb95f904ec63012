package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mathdiff/internal/config"
)

// ConfigValidateResult is the output of config validate.
type ConfigValidateResult struct {
	Path      string `json:"path"`
	Valid     bool   `json:"valid"`
	Mode      string `json:"mode"`
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`
}

// String renders the result for text output.
func (r ConfigValidateResult) String() string {
	return fmt.Sprintf("%s is valid (mode %s, reference %s, candidate %s)",
		r.Path, r.Mode, r.Reference, r.Candidate)
}

// configYAML is YAML text that prints verbatim.
type configYAML struct {
	YAML string `json:"yaml"`
}

func (c configYAML) String() string { return strings.TrimSuffix(c.YAML, "\n") }

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration files",
	}

	cmd.AddCommand(newConfigValidateCommand(rootOpts))
	cmd.AddCommand(newConfigDefaultsCommand(rootOpts))

	return cmd
}

func newConfigValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a configuration file against the schema",
		Long: `Load a YAML configuration file over the defaults and validate it.

Exits 0 when the file is valid and 2 otherwise.

Example:
  mathdiff config validate mathdiff.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			cfg, err := config.Load(args[0])
			if err != nil {
				return commandError(f, "invalid configuration", err)
			}
			return f.Success(ConfigValidateResult{
				Path:      args[0],
				Valid:     true,
				Mode:      cfg.Mode,
				Reference: cfg.Reference.Name,
				Candidate: cfg.Candidate.Name,
			})
		},
	}
}

func newConfigDefaultsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in configuration as YAML",
		Long: `Print the built-in configuration. The output is a valid configuration
file and a starting point for writing one.

Example:
  mathdiff config defaults > mathdiff.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			if f.Format == "json" {
				return f.Success(config.Default())
			}
			data, err := config.Marshal(config.Default())
			if err != nil {
				return commandError(f, "cannot encode configuration", err)
			}
			return f.Success(configYAML{YAML: string(data)})
		},
	}
}
