package testutil

// DefaultSessionID is used when a scenario does not name its session.
const DefaultSessionID = "test-session-default"

// FixedSessionGenerator generates the same session ID every time.
//
// A scenario run with a FixedSessionGenerator produces byte-identical
// press IDs, so traces can be compared against golden files.
//
// Unlike engine.FixedGenerator, which hands out a list of IDs once each,
// this generator never runs out.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a fixed session ID generator.
// If id is empty, Generate returns DefaultSessionID.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
// Implements engine.SessionIDGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
