package oracle

import (
	"context"
	"fmt"
	"sync"
)

// MockOracle is a lightweight in-memory Oracle useful for tests & examples.
// Replies can be registered per exact user prompt, or a CompleteFunc can be
// installed for prompt-dependent behavior. Every request is recorded.
type MockOracle struct {
	mu        sync.Mutex
	responses map[string]string
	fn        func(req Request) (string, error)
	err       error
	requests  []Request
}

// NewMockOracle constructs an empty MockOracle.
func NewMockOracle() *MockOracle {
	return &MockOracle{responses: make(map[string]string)}
}

// AddResponse registers a deterministic canned reply for a user prompt.
func (m *MockOracle) AddResponse(userPrompt, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[userPrompt] = reply
}

// SetFunc installs a handler consulted for every request. It takes
// precedence over canned replies.
func (m *MockOracle) SetFunc(fn func(req Request) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
}

// FailWith makes every subsequent call return err.
func (m *MockOracle) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests seen so far.
func (m *MockOracle) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Complete implements Oracle.
func (m *MockOracle) Complete(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if m.fn != nil {
		return m.fn(req)
	}
	if reply, ok := m.responses[req.User]; ok {
		return reply, nil
	}
	return fmt.Sprintf("Mock response to: %s", req.User), nil
}
