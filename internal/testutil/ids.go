package testutil

// DefaultRunID is used by FixedIDGenerator when no ID is given.
const DefaultRunID = "00000000-0000-7000-8000-000000000001"

// FixedIDGenerator generates the same run ID every time.
//
// This enables deterministic reports and golden snapshot comparison: the
// same run with the same FixedIDGenerator produces byte-identical output.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator that always returns id.
// If id is empty, Generate() returns DefaultRunID.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
//
// Implements harness.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
