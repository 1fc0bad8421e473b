// Package oracle abstracts the external text-generation capability the
// orchestrator consults for classification, planning and summarization
// decisions. Each call is one blocking round trip; the deterministic parts
// of the system (parsing, fallback, merging) never touch it directly, so
// they remain testable with the MockOracle.
package oracle

import "context"

// Request describes a single completion call.
type Request struct {
	// System is the optional system / instruction prompt.
	System string
	// User is the user-turn prompt text.
	User string
	// MaxTokens caps the reply length when > 0 (classification uses 1).
	MaxTokens int64
	// JSONObject asks the provider for a JSON-object constrained reply,
	// where the provider supports it. Providers without a native JSON mode
	// ignore the flag; callers must parse defensively either way.
	JSONObject bool
}

// Oracle is the minimal completion interface. Implementations live in the
// provider subpackages; tests use MockOracle.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}
