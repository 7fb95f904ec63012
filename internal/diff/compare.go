// Package diff compares renderer outputs.
//
// Trees are compared by canonical equality (see tree.Canonicalize); text is
// compared by locating the first differing character and cutting context
// windows around it. Both entry points are pure functions of their inputs.
package diff

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/roach88/mathdiff/internal/tree"
)

// Default context radius around a text divergence, in characters.
const (
	DefaultContextBefore = 40
	DefaultContextAfter  = 60
)

// DefaultDiffLimit caps the structural differences kept for a tree mismatch.
const DefaultDiffLimit = 20

// Context is the window radius used when reporting a text divergence.
type Context struct {
	Before int `json:"before" yaml:"before"`
	After  int `json:"after" yaml:"after"`
}

// DefaultContext returns 40 characters before and 60 after.
func DefaultContext() Context {
	return Context{Before: DefaultContextBefore, After: DefaultContextAfter}
}

// Result is the outcome of one comparison: a match, or a mismatch carrying
// either a text or a tree divergence.
type Result struct {
	Match bool            `json:"match"`
	Text  *TextDivergence `json:"text,omitempty"`
	Tree  *TreeDivergence `json:"tree,omitempty"`
}

// TextDivergence locates the first differing character of two strings.
type TextDivergence struct {
	// Position is the zero-based character index of the first difference,
	// or the shorter length when one string is a prefix of the other.
	Position int `json:"position"`

	// WindowStart is the character index where both windows begin.
	WindowStart int `json:"window_start"`

	// Reference and Candidate are the context windows cut from each side.
	// Invalid UTF-8 bytes appear as \xNN escapes.
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`

	// Marker is spaces followed by a caret under Position within a window,
	// measured in terminal columns: wide characters take two, combining
	// marks none.
	Marker string `json:"marker"`
}

// TreeDivergence describes a tree mismatch. Equality is boolean; the
// differences are a reporting aid.
type TreeDivergence struct {
	ReferenceDigest string       `json:"reference_digest"`
	CandidateDigest string       `json:"candidate_digest"`
	Differences     []Difference `json:"differences"`
	Truncated       bool         `json:"truncated,omitempty"`
}

// Comparator holds the settings shared by tree and text comparison.
type Comparator struct {
	Canonical tree.CanonicalOptions
	Context   Context
	DiffLimit int
}

// NewComparator returns a comparator with default canonicalization,
// 40/60 context and a 20-entry difference cap.
func NewComparator() Comparator {
	return Comparator{
		Canonical: tree.DefaultCanonicalOptions(),
		Context:   DefaultContext(),
		DiffLimit: DefaultDiffLimit,
	}
}

// Trees canonicalizes both values and compares them structurally.
func (c Comparator) Trees(a, b tree.Value) Result {
	ca := tree.Canonicalize(a, c.Canonical)
	cb := tree.Canonicalize(b, c.Canonical)
	if tree.Equal(ca, cb) {
		return Result{Match: true}
	}

	diffs, truncated := TreeDiff(ca, cb, c.DiffLimit)
	return Result{
		Tree: &TreeDivergence{
			ReferenceDigest: tree.ShortDigest(ca),
			CandidateDigest: tree.ShortDigest(cb),
			Differences:     diffs,
			Truncated:       truncated,
		},
	}
}

// Text compares two strings with the comparator's context radius.
func (c Comparator) Text(a, b string) Result {
	return CompareText(a, b, c.Context)
}

// CompareTrees canonicalizes a and b with opts and reports whether they are
// structurally identical.
func CompareTrees(a, b tree.Value, opts tree.CanonicalOptions) Result {
	c := NewComparator()
	c.Canonical = opts
	return c.Trees(a, b)
}

// CompareText reports whether a and b are identical and, if not, where they
// first diverge. One pass over the shared prefix; no diff algorithm.
func CompareText(a, b string, ctx Context) Result {
	if a == b {
		return Result{Match: true}
	}

	pos := FirstDifference(a, b)
	start := max(0, pos-ctx.Before)
	end := pos + ctx.After

	ca := characters(a, end)
	cb := characters(b, end)
	// Both sides share the characters before pos.
	pad := columns(window(ca, start, pos))

	return Result{
		Text: &TextDivergence{
			Position:    pos,
			WindowStart: start,
			Reference:   window(ca, start, end),
			Candidate:   window(cb, start, end),
			Marker:      strings.Repeat(" ", pad) + "^",
		},
	}
}

// FirstDifference returns the character index of the first difference
// between a and b, the shorter length if one is a prefix of the other, or
// -1 if they are identical. Characters are compared by their encoded bytes,
// so distinct invalid UTF-8 sequences never compare equal.
func FirstDifference(a, b string) int {
	i := 0
	for len(a) > 0 && len(b) > 0 {
		_, sa := utf8.DecodeRuneInString(a)
		_, sb := utf8.DecodeRuneInString(b)
		if a[:sa] != b[:sb] {
			return i
		}
		a = a[sa:]
		b = b[sb:]
		i++
	}
	if len(a) == 0 && len(b) == 0 {
		return -1
	}
	return i
}

// characters splits the first limit characters of s, decoding the same way
// FirstDifference does. An invalid byte becomes a \xNN escape.
func characters(s string, limit int) []string {
	var chars []string
	for len(s) > 0 && len(chars) < limit {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			chars = append(chars, fmt.Sprintf(`\x%02x`, s[0]))
		} else {
			chars = append(chars, s[:size])
		}
		s = s[size:]
	}
	return chars
}

// window joins chars[start:end] clamped to valid bounds.
func window(chars []string, start, end int) string {
	start = min(max(start, 0), len(chars))
	end = min(max(end, start), len(chars))
	return strings.Join(chars[start:end], "")
}

// columns estimates the terminal width of s.
func columns(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
