// Package core defines the shared vocabulary of the orchestration system:
// work units, assignment plans, the agent registry, trace records, progress
// events and the memory store contract. Higher-level packages (plan, segment,
// dispatch, scheduler) depend on core; core depends on nothing above it.
package core
