package core

// AgentDef describes one remote worker agent: a stable name, the HTTP
// endpoint dispatch calls are POSTed to, and a short capability description
// surfaced to the planning oracle.
type AgentDef struct {
	Name       string `json:"name"`
	Endpoint   string `json:"endpoint"`
	Capability string `json:"capability,omitempty"`
}

// Registry is the immutable table of known agents. It defines the universe
// of valid plan targets: plan lines naming agents outside the registry are
// discarded. The registry preserves declaration order so that round-robin
// fallback and summary collection are deterministic.
//
// A Registry is built once and injected at construction; it is never mutated
// at run time and is safe for concurrent reads.
type Registry struct {
	order  []string
	byName map[string]AgentDef
}

// NewRegistry builds a registry from agent definitions in declaration order.
// A duplicate name overwrites the earlier definition but keeps its position.
func NewRegistry(agents ...AgentDef) *Registry {
	r := &Registry{byName: make(map[string]AgentDef, len(agents))}
	for _, a := range agents {
		if _, ok := r.byName[a.Name]; !ok {
			r.order = append(r.order, a.Name)
		}
		r.byName[a.Name] = a
	}
	return r
}

// Lookup returns the definition for name, if registered.
func (r *Registry) Lookup(name string) (AgentDef, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Has reports whether name is a registry member.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns the agent names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int { return len(r.order) }
