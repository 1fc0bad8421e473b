package memory

import (
	"sync"

	"github.com/zeyuyuyu/agent-v8/core"
)

// InMemoryStore is a volatile core.MemoryStore keeping context state in a
// process-local map guarded by an RWMutex. Get returns a copy so readers
// hold a point-in-time snapshot that later writes cannot mutate.
type InMemoryStore struct {
	mu    sync.RWMutex
	store map[string]map[string]any
}

var _ core.MemoryStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{store: make(map[string]map[string]any)}
}

// Get returns a snapshot of the context's state, or an empty map for an
// unknown context id. Agent sub-maps are copied one level deep so a
// concurrent MergeUnit cannot race the caller's reads.
func (s *InMemoryStore) Get(contextID string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.store[contextID]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(state))
	for k, v := range state {
		if sub, ok := v.(map[string]string); ok {
			cp := make(map[string]string, len(sub))
			for sk, sv := range sub {
				cp[sk] = sv
			}
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Update merges delta one level deep: each top-level key overwrites the
// stored value for that key. Values are not merged recursively.
func (s *InMemoryStore) Update(contextID string, delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.store[contextID]
	if !ok {
		state = make(map[string]any)
		s.store[contextID] = state
	}
	for k, v := range delta {
		state[k] = v
	}
}

// MergeUnit folds one unit result into the agent's sub-map while holding
// the write lock, so concurrent workers on the same context id never lose
// each other's unit-level writes.
func (s *InMemoryStore) MergeUnit(contextID, agent, unitLabel, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.store[contextID]
	if !ok {
		state = make(map[string]any)
		s.store[contextID] = state
	}
	sub, ok := state[agent].(map[string]string)
	if !ok {
		sub = make(map[string]string)
		state[agent] = sub
	}
	sub[unitLabel] = text
}
