package testutil

// FixedRunID returns the same build id every time.
//
// Stored builds then carry byte-identical ids across runs, which keeps golden
// snapshots stable. Unlike store.FixedGenerator, which walks a sequence,
// this generator never runs out.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a fixed id generator.
// If id is empty, Generate() returns "test-build-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-build-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed id.
//
// Implements store.RunIDGenerator.
func (g *FixedRunID) Generate() string {
	return g.id
}
