package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxStderr bounds how much of a failing command's stderr ends up in the
// error message.
const maxStderr = 512

// ProcessConfig describes an external renderer command.
type ProcessConfig struct {
	// Name identifies the renderer in reports.
	Name string

	// Command is the argv to execute; Command[0] is resolved via PATH.
	Command []string

	// Env is appended to the current environment.
	Env []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Settings are forwarded with every request.
	Settings Settings

	// Timeout bounds a single invocation; zero means no limit.
	Timeout time.Duration
}

// Process renders by spawning a command per expression. The command reads a
// JSON request on stdin and writes one JSON envelope on stdout.
type Process struct {
	cfg ProcessConfig
}

// request is the JSON document written to the command's stdin.
type request struct {
	Expression string   `json:"expression"`
	Mode       Mode     `json:"mode"`
	Settings   Settings `json:"settings"`
}

// NewProcess validates cfg and returns a Process renderer.
func NewProcess(cfg ProcessConfig) (*Process, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, fmt.Errorf("renderer %q: empty command", cfg.Name)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("renderer %q: negative timeout %s", cfg.Name, cfg.Timeout)
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Command[0]
	}
	cfg.Command = append([]string(nil), cfg.Command...)
	return &Process{cfg: cfg}, nil
}

// Name returns the configured renderer name.
func (p *Process) Name() string { return p.cfg.Name }

// Render runs the command once for expr.
func (p *Process) Render(ctx context.Context, expr string, mode Mode) (Output, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(request{
		Expression: expr,
		Mode:       mode,
		Settings:   p.cfg.Settings.Wire(),
	})
	if err != nil {
		return Output{}, fmt.Errorf("encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.cfg.Command[0], p.cfg.Command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Dir = p.cfg.Dir
	if len(p.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), p.cfg.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return Output{}, fmt.Errorf("%s: timed out after %s", p.cfg.Name, p.cfg.Timeout)
		} else if ctxErr != nil {
			return Output{}, fmt.Errorf("%s: %w", p.cfg.Name, ctxErr)
		}
		if msg := stderrTail(stderr.String()); msg != "" {
			return Output{}, fmt.Errorf("%s: %w: %s", p.cfg.Name, err, msg)
		}
		return Output{}, fmt.Errorf("%s: %w", p.cfg.Name, err)
	}

	out, err := DecodeEnvelope(stdout.Bytes(), mode)
	if err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			re.Renderer = p.cfg.Name
			return Output{}, re
		}
		return Output{}, fmt.Errorf("%s: %w", p.cfg.Name, err)
	}
	return out, nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return s
}
