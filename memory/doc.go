// Package memory provides the process-local implementation of
// core.MemoryStore used to accumulate per-task-context results across a
// dispatch run. State survives only as long as the process; callers wanting
// cross-run accumulation reuse a stable context id.
package memory
