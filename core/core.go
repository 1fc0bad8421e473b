package core

import "github.com/google/uuid"

// WorkUnit is the smallest addressable piece of input dispatched to one
// agent: a document page, a text chunk, or a subtask description. Units are
// immutable once created and ordered by Position within their source.
type WorkUnit struct {
	ID       string `json:"id"`       // "page_<n>", "chunk_<n>" or a subtask string
	Text     string `json:"text"`     // extracted context text
	Position int    `json:"position"` // ordering within the source document
}

// UnitLabel is the human-facing label used for trace records, progress
// events and memory keys. It matches the wire convention of the agents.
func UnitLabel(unitID string) string { return "Process " + unitID }

// TraceEntry records one dispatch attempt and its outcome. The trace returned
// by a run contains exactly one entry per (agent, unit) pair attempted,
// including failed calls.
type TraceEntry struct {
	Agent     string `json:"agent"`
	UnitLabel string `json:"subtask"`
	Output    string `json:"output"`
}

// AgentResult is the normalized outcome of one agent call. Remote agents
// reply in one of two shapes ("result" or "memory_update"); the dispatch
// layer folds both into this canonical form at the boundary.
type AgentResult struct {
	AgentName string
	UnitID    string
	Text      string
}

// NewID generates a unique identifier, used for fresh task context ids.
func NewID() string { return uuid.NewString() }
