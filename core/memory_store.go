package core

// MemoryStore holds per-task-context accumulated state shared between
// dispatch workers and the orchestrator. Keys one level below the context id
// are agent names (each mapping unit label -> result text) plus the
// distinguished "summary" key holding the final synthesis.
//
// Implementations must be safe for concurrent use by workers racing on the
// same context id.
type MemoryStore interface {
	// Get returns a point-in-time snapshot of the context's state. Unknown
	// context ids yield an empty map, never an error.
	Get(contextID string) map[string]any

	// Update merges delta one level deep: each top-level key's value
	// overwrites the stored value for that key (no recursive merge).
	Update(contextID string, delta map[string]any)

	// MergeUnit atomically folds one unit result into the agent's sub-map.
	// Unlike a Get/Update round trip it cannot lose concurrent unit-level
	// writes for the same agent.
	MergeUnit(contextID, agent, unitLabel, text string)
}
