package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mathdiff/internal/tree"
)

// ErrCodeInvalidTree is reported when a canon input is not a JSON document.
const ErrCodeInvalidTree = "E_INVALID_TREE"

// CanonOptions holds flags for the canon command.
type CanonOptions struct {
	*RootOptions
	ExcludedKeys []string
	Precision    int
}

// CanonResult is the output of the canon command.
type CanonResult struct {
	Canonical json.RawMessage `json:"canonical"`
	Digest    string          `json:"digest"`
}

// String renders the result for text output.
func (r CanonResult) String() string {
	return fmt.Sprintf("%s\ndigest: %s", r.Canonical, r.Digest)
}

// NewCanonCommand creates the canon command.
func NewCanonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CanonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "canon <tree.json>",
		Short: "Print the canonical form and digest of a parse tree",
		Long: `Canonicalize a parse tree the way tree-mode comparison does: drop the
excluded keys, round numbers to the configured precision, sort object keys
and serialize as canonical JSON. The digest is the SHA-256 of that form.

Use - to read the tree from standard input.

Example:
  mathdiff canon tree.json
  mathdiff canon --exclude loc,mode --precision 4 - < tree.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.ExcludedKeys, "exclude", append([]string(nil), tree.DefaultExcludedKeys...), "object keys to drop at every depth")
	cmd.Flags().IntVar(&opts.Precision, "precision", tree.DefaultPrecision, "fractional digits kept in numbers")

	return cmd
}

func runCanon(opts *CanonOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if opts.Precision < 0 || opts.Precision > 15 {
		return commandError(f, "invalid precision",
			fmt.Errorf("precision %d is outside 0..15", opts.Precision))
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return commandError(f, "cannot read tree", err)
	}

	v, err := tree.Unmarshal(data)
	if err != nil {
		if f.Format == "json" {
			_ = f.Error(ErrCodeInvalidTree, err.Error(), map[string]string{"path": path})
		}
		return WrapExitError(ExitCommandError, "invalid tree", err)
	}

	canonical := tree.Canonicalize(v, tree.CanonicalOptions{
		ExcludedKeys: opts.ExcludedKeys,
		Precision:    opts.Precision,
	})
	encoded, err := tree.MarshalCanonical(canonical)
	if err != nil {
		return commandError(f, "cannot encode tree", err)
	}
	digest, err := tree.Digest(canonical)
	if err != nil {
		return commandError(f, "cannot digest tree", err)
	}

	return f.Success(CanonResult{Canonical: encoded, Digest: digest})
}
