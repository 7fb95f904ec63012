// Package tree provides the value model for renderer parse trees.
//
// A parse tree arrives from a renderer as JSON: nested objects, arrays,
// strings, numbers, booleans and null. This package decodes it into a sealed
// Value type, canonicalizes it for comparison, and serializes it to canonical
// JSON for reports and digests.
//
// tree imports nothing internal. Every other package that handles parse trees
// imports tree.
//
// Key constraints:
//   - Numbers are float64, matching the renderers' own number model
//   - Object iteration always goes through SortedKeys (UTF-16 code unit order)
//   - Canonicalize is idempotent: Canonicalize(Canonicalize(v)) == Canonicalize(v)
package tree
