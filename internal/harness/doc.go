// Package harness runs differential equivalence tests between a reference
// and a candidate rendering implementation.
//
// A run selects inputs from a line-oriented corpus, invokes both renderers
// on each input, compares their outputs and aggregates the results:
//
//	Select -> Runner.Invoke -> compare -> Aggregator.Record -> Reporter
//
// # Corpus Format
//
// One markup expression per line. Blank lines and lines whose first
// non-whitespace character is '#' are skipped; remaining lines are trimmed.
// Inputs are identified by their 1-based line number:
//
//	# fractions
//	\frac{a}{b}
//	E=mc^2
//
// # Categories
//
// Every input lands in exactly one category:
//
//   - MATCH: both renderers succeeded and the outputs are equivalent
//   - FAIL: both succeeded but the outputs differ
//   - ERROR: at least one renderer failed (error, timeout or panic)
//
// Renderer failures are always local to their input. Nothing that happens
// while processing one input can stop the run.
//
// # Determinism
//
// Timing uses an injectable Clock and run IDs come from an injectable
// IDGenerator, so tests can produce byte-identical reports with
// testutil.StepClock and testutil.FixedIDGenerator.
package harness
