package ir

// Version constants for the trace schema and engine.
const (
	// IRVersion is the trace record schema version.
	IRVersion = "1"

	// EngineVersion is the tally engine version.
	EngineVersion = "0.1.0"
)
