package harness

import (
	"context"
	"strings"
	"unicode"
)

// Predicate reports whether an expression still exhibits the behavior being
// minimized.
type Predicate func(ctx context.Context, expr string) bool

// Minimization is the result of Minimize.
type Minimization struct {
	Original        string `json:"original"`
	Minimized       string `json:"minimized"`
	OriginalTokens  int    `json:"original_tokens"`
	MinimizedTokens int    `json:"minimized_tokens"`

	// Reproduced is false when the original expression did not satisfy the
	// predicate; Minimized then equals Original.
	Reproduced bool `json:"reproduced"`
}

// Tokenize splits markup into tokens that are removed as units during
// minimization: control words (\frac), control symbols (\{), whitespace
// runs and single characters. Concatenating the tokens yields expr.
func Tokenize(expr string) []string {
	runes := []rune(expr)
	var tokens []string

	for i := 0; i < len(runes); {
		start := i
		switch {
		case runes[i] == '\\':
			i++
			for i < len(runes) && isASCIILetter(runes[i]) {
				i++
			}
			if i == start+1 && i < len(runes) {
				i++
			}
		case unicode.IsSpace(runes[i]):
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
		default:
			i++
		}
		tokens = append(tokens, string(runes[start:i]))
	}
	return tokens
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// Minimize greedily shrinks expr while stillFails holds. It first tries
// dropping each token, then each adjacent pair of remaining tokens. Blank
// candidates are never proposed.
func Minimize(ctx context.Context, expr string, stillFails Predicate) Minimization {
	tokens := Tokenize(expr)
	m := Minimization{
		Original:        expr,
		Minimized:       expr,
		OriginalTokens:  len(tokens),
		MinimizedTokens: len(tokens),
	}
	if !stillFails(ctx, expr) {
		return m
	}
	m.Reproduced = true

	skip := make([]bool, len(tokens))
	try := func(idx ...int) {
		for _, i := range idx {
			skip[i] = true
		}
		candidate := reassemble(tokens, skip)
		if strings.TrimSpace(candidate) == "" || !stillFails(ctx, candidate) {
			for _, i := range idx {
				skip[i] = false
			}
		}
	}

	for i := range tokens {
		try(i)
	}
	for i := 0; i+1 < len(tokens); i++ {
		if skip[i] || skip[i+1] {
			continue
		}
		try(i, i+1)
	}

	m.Minimized = reassemble(tokens, skip)
	m.MinimizedTokens = 0
	for _, s := range skip {
		if !s {
			m.MinimizedTokens++
		}
	}
	return m
}

func reassemble(tokens []string, skip []bool) string {
	var sb strings.Builder
	for i, t := range tokens {
		if !skip[i] {
			sb.WriteString(t)
		}
	}
	return sb.String()
}
