package diff

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/mathdiff/internal/tree"
)

// maxSnippet bounds the serialized value carried in a Difference.
const maxSnippet = 200

// Difference is one structural discrepancy between two trees.
type Difference struct {
	// Path is a JSONPath-like location such as $.body[0].text.
	Path string `json:"path"`

	// NodeType is the "type" field of the enclosing object, if any.
	NodeType string `json:"node_type,omitempty"`

	Description string `json:"description"`
	Reference   string `json:"reference,omitempty"`
	Candidate   string `json:"candidate,omitempty"`
}

// String renders the difference on one line plus optional value lines.
func (d Difference) String() string {
	var sb strings.Builder
	sb.WriteString("path=")
	sb.WriteString(d.Path)
	if d.NodeType != "" {
		sb.WriteString(" node_type=")
		sb.WriteString(d.NodeType)
	}
	sb.WriteString(" ")
	sb.WriteString(d.Description)
	if d.Reference != "" {
		sb.WriteString("\n  reference: ")
		sb.WriteString(d.Reference)
	}
	if d.Candidate != "" {
		sb.WriteString("\n  candidate: ")
		sb.WriteString(d.Candidate)
	}
	return sb.String()
}

// TreeDiff walks ref and cand in parallel and lists where they differ.
// Object keys are visited in canonical order. At most limit differences are
// returned (limit <= 0 means no cap); truncated reports whether more existed.
//
// Values are compared as given; callers wanting tolerance for volatile keys
// and float noise should canonicalize both sides first.
func TreeDiff(ref, cand tree.Value, limit int) (diffs []Difference, truncated bool) {
	w := &walker{limit: limit}
	w.walk(ref, cand, "$", "")
	return w.diffs, w.truncated
}

type walker struct {
	limit     int
	diffs     []Difference
	truncated bool
}

func (w *walker) add(d Difference) {
	if w.limit > 0 && len(w.diffs) >= w.limit {
		w.truncated = true
		return
	}
	w.diffs = append(w.diffs, d)
}

// nodeType is the type of the object enclosing path, if any.
func (w *walker) walk(ref, cand tree.Value, path, nodeType string) {
	if w.truncated {
		return
	}

	switch r := ref.(type) {
	case tree.Object:
		c, ok := cand.(tree.Object)
		if !ok {
			w.mismatch(ref, cand, path, nodeType)
			return
		}
		w.walkObject(r, c, path)
	case tree.Array:
		c, ok := cand.(tree.Array)
		if !ok {
			w.mismatch(ref, cand, path, nodeType)
			return
		}
		w.walkArray(r, c, path)
	default:
		if !tree.Equal(ref, cand) {
			w.mismatch(ref, cand, path, nodeType)
		}
	}
}

func (w *walker) walkObject(r, c tree.Object, path string) {
	nodeType := ""
	if s, ok := r["type"].(tree.String); ok {
		nodeType = string(s)
	}

	union := make(tree.Object, len(r)+len(c))
	for k := range r {
		union[k] = tree.Null{}
	}
	for k := range c {
		union[k] = tree.Null{}
	}

	for _, k := range union.SortedKeys() {
		child := childPath(path, k)
		rv, inRef := r[k]
		cv, inCand := c[k]
		switch {
		case inRef && inCand:
			w.walk(rv, cv, child, nodeType)
		case inRef:
			w.add(Difference{
				Path:        child,
				NodeType:    nodeType,
				Description: "missing field in candidate",
				Reference:   snippet(rv),
			})
		default:
			w.add(Difference{
				Path:        child,
				NodeType:    nodeType,
				Description: "extra field in candidate",
				Candidate:   snippet(cv),
			})
		}
	}
}

func (w *walker) walkArray(r, c tree.Array, path string) {
	if len(r) != len(c) {
		w.add(Difference{
			Path:        path,
			Description: fmt.Sprintf("array length mismatch: reference %d vs candidate %d", len(r), len(c)),
			Reference:   fmt.Sprintf("length %d", len(r)),
			Candidate:   fmt.Sprintf("length %d", len(c)),
		})
	}
	for i := range min(len(r), len(c)) {
		w.walk(r[i], c[i], fmt.Sprintf("%s[%d]", path, i), "")
	}
}

func (w *walker) mismatch(ref, cand tree.Value, path, nodeType string) {
	desc := "value mismatch"
	if rk, ck := tree.Kind(ref), tree.Kind(cand); rk != ck {
		desc = fmt.Sprintf("type mismatch: %s vs %s", rk, ck)
	}
	w.add(Difference{
		Path:        path,
		NodeType:    nodeType,
		Description: desc,
		Reference:   snippet(ref),
		Candidate:   snippet(cand),
	})
}

// childPath appends key to path, using bracket notation for keys that are
// not plain identifiers.
func childPath(path, key string) string {
	if isIdentifier(key) {
		return path + "." + key
	}
	return fmt.Sprintf("%s[%q]", path, key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// snippet serializes v canonically and cuts it to maxSnippet bytes on a
// character boundary.
func snippet(v tree.Value) string {
	s := tree.CanonicalString(v)
	if len(s) <= maxSnippet {
		return s
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
