package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Error codes for configuration problems.
const (
	ErrCodeConfigNotFound = "E_CONFIG_NOT_FOUND"
	ErrCodeInvalidConfig  = "E_INVALID_CONFIG"
)

// Error is a configuration loading or validation failure.
type Error struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] ", e.Code)
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validate checks cfg against the embedded CUE schema and the constraints
// CUE cannot express.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	normalized := *cfg
	if normalized.Canonical.ExcludedKeys == nil {
		normalized.Canonical.ExcludedKeys = []string{}
	}

	value := ctx.Encode(&normalized)
	if err := value.Err(); err != nil {
		return &Error{Code: ErrCodeInvalidConfig, Message: "cannot encode configuration", Err: err}
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &Error{
			Code:    ErrCodeInvalidConfig,
			Message: strings.TrimSpace(cueerrors.Details(err, nil)),
		}
	}

	for _, r := range []Renderer{cfg.Reference, cfg.Candidate} {
		if _, err := r.TimeoutDuration(); err != nil {
			return err
		}
	}
	if cfg.Reference.Name == cfg.Candidate.Name {
		return &Error{
			Code:    ErrCodeInvalidConfig,
			Field:   "candidate.name",
			Message: fmt.Sprintf("must differ from reference name %q", cfg.Reference.Name),
		}
	}
	return nil
}
