// Package config loads and validates harness configuration.
//
// A configuration file is YAML. Fields left out of the file keep their
// defaults; unknown fields are rejected. The merged result is validated
// against an embedded CUE schema (schema.cue) before use.
//
//	mode: tree
//	reference:
//	  name: katex
//	  command: [node, scripts/render.js]
//	  timeout: 10s
//	candidate:
//	  name: katex-go
//	  command: [./bin/render]
//	canonical:
//	  excluded_keys: [loc]
//	  precision: 8
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mathdiff/internal/diff"
	"github.com/roach88/mathdiff/internal/render"
	"github.com/roach88/mathdiff/internal/tree"
)

// Config is the complete harness configuration.
type Config struct {
	Mode             string `json:"mode" yaml:"mode"`
	Parallel         bool   `json:"parallel" yaml:"parallel"`
	ExcludeColdStart bool   `json:"exclude_cold_start" yaml:"exclude_cold_start"`
	Dedupe           bool   `json:"dedupe" yaml:"dedupe"`

	Reference Renderer `json:"reference" yaml:"reference"`
	Candidate Renderer `json:"candidate" yaml:"candidate"`

	Settings  render.Settings `json:"settings" yaml:"settings"`
	Canonical Canonical       `json:"canonical" yaml:"canonical"`
	Context   diff.Context    `json:"context" yaml:"context"`
	DiffLimit int             `json:"diff_limit" yaml:"diff_limit"`
}

// Renderer configures one external implementation.
type Renderer struct {
	Name    string   `json:"name" yaml:"name"`
	Command []string `json:"command" yaml:"command,flow"`
	Env     []string `json:"env,omitempty" yaml:"env,omitempty"`
	Dir     string   `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Timeout is a Go duration string such as "10s". Empty means no limit.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// Canonical configures tree canonicalization.
type Canonical struct {
	ExcludedKeys []string `json:"excluded_keys" yaml:"excluded_keys,flow"`
	Precision    int      `json:"precision" yaml:"precision"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode: string(render.ModeHTML),
		Reference: Renderer{
			Name:    "reference",
			Command: []string{"node", "scripts/render_reference.js"},
			Timeout: "30s",
		},
		Candidate: Renderer{
			Name:    "candidate",
			Command: []string{"node", "scripts/render_candidate.js"},
			Timeout: "30s",
		},
		Settings: render.DefaultSettings(),
		Canonical: Canonical{
			ExcludedKeys: append([]string{}, tree.DefaultExcludedKeys...),
			Precision:    tree.DefaultPrecision,
		},
		Context:   diff.DefaultContext(),
		DiffLimit: diff.DefaultDiffLimit,
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := ErrCodeInvalidConfig
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeConfigNotFound
		}
		return nil, &Error{Code: code, Path: path, Message: "cannot read config file", Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	// Parse YAML with strict field validation (catches typos like "mdoe:")
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Code: ErrCodeInvalidConfig, Message: "failed to parse YAML", Err: err}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderMode returns the configured output mode.
func (c *Config) RenderMode() render.Mode {
	return render.Mode(c.Mode)
}

// Comparator builds the output comparator described by c.
func (c *Config) Comparator() diff.Comparator {
	return diff.Comparator{
		Canonical: tree.CanonicalOptions{
			ExcludedKeys: append([]string{}, c.Canonical.ExcludedKeys...),
			Precision:    c.Canonical.Precision,
		},
		Context:   c.Context,
		DiffLimit: c.DiffLimit,
	}
}

// ProcessConfig builds the subprocess renderer configuration for r.
func (c *Config) ProcessConfig(r Renderer) (render.ProcessConfig, error) {
	timeout, err := r.TimeoutDuration()
	if err != nil {
		return render.ProcessConfig{}, err
	}
	return render.ProcessConfig{
		Name:     r.Name,
		Command:  append([]string(nil), r.Command...),
		Env:      append([]string(nil), r.Env...),
		Dir:      r.Dir,
		Settings: c.Settings,
		Timeout:  timeout,
	}, nil
}

// TimeoutDuration parses Timeout. An empty Timeout yields zero.
func (r Renderer) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, &Error{
			Code:    ErrCodeInvalidConfig,
			Field:   r.Name + ".timeout",
			Message: fmt.Sprintf("invalid duration %q", r.Timeout),
			Err:     err,
		}
	}
	return d, nil
}
