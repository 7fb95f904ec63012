package harness

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// Input is one markup expression from the corpus.
type Input struct {
	// Line is the 1-based line number in the corpus.
	Line int `json:"line"`

	// Text is the trimmed expression. Never empty.
	Text string `json:"text"`
}

// Range selects corpus lines, 1-based and inclusive.
// Zero Start means the first line; zero End means the last.
type Range struct {
	Start int `json:"start,omitempty"`
	End   int `json:"end,omitempty"`
}

// Validate checks r against a corpus of total lines. Select itself never
// fails; Validate lets callers reject a malformed range before any work.
func (r Range) Validate(total int) error {
	if r.Start < 0 {
		return newRangeError("start line %d must be positive", r.Start)
	}
	if r.End < 0 {
		return newRangeError("end line %d must be positive", r.End)
	}
	if r.Start > 0 && r.Start > total {
		return newRangeError("start line %d is beyond the end of the corpus (%d lines)", r.Start, total)
	}
	if r.End > 0 && r.Start > r.End {
		return newRangeError("start line %d is after end line %d", r.Start, r.End)
	}
	return nil
}

// SelectOptions configures corpus selection.
type SelectOptions struct {
	Range Range

	// Dedupe drops inputs whose text already appeared earlier in the
	// selection.
	Dedupe bool
}

// Select returns the inputs of source within r, in line order.
// Out-of-range bounds are clamped; an empty selection is not an error.
func Select(source string, r Range) []Input {
	return SelectWith(source, SelectOptions{Range: r})
}

// SelectWith is Select with additional options.
func SelectWith(source string, opts SelectOptions) []Input {
	lines := Lines(source)
	total := len(lines)

	start := max(opts.Range.Start, 1)
	end := opts.Range.End
	if end <= 0 || end > total {
		end = total
	}
	if start > end {
		return nil
	}

	var seen map[string]bool
	if opts.Dedupe {
		seen = make(map[string]bool)
	}

	var inputs []Input
	for n := start; n <= end; n++ {
		text := strings.TrimSpace(lines[n-1])
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if seen != nil {
			if seen[text] {
				continue
			}
			seen[text] = true
		}
		inputs = append(inputs, Input{Line: n, Text: text})
	}
	return inputs
}

// Lines splits source into lines. A trailing newline does not start an
// extra line, and a carriage return before a newline is dropped.
func Lines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// LoadCorpus reads the corpus file at path.
func LoadCorpus(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := ErrCodeCorpusUnreadable
		msg := "cannot read corpus"
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeCorpusNotFound
			msg = "corpus not found"
		}
		return "", &ConfigurationError{Code: code, Message: msg, Path: path, Err: err}
	}
	return string(data), nil
}
