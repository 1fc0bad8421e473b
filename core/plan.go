package core

// Plan is a validated assignment of work units to agents. Agents appear in
// first-insertion order and each agent's unit list keeps its original order
// with duplicates removed (first occurrence wins), so iterating a plan is
// deterministic for a given input.
type Plan struct {
	order []string
	units map[string][]string
	seen  map[string]map[string]struct{}
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{
		units: make(map[string][]string),
		seen:  make(map[string]map[string]struct{}),
	}
}

// Add appends unit ids to an agent's assignment, skipping ids the agent
// already holds.
func (p *Plan) Add(agent string, unitIDs ...string) {
	for _, id := range unitIDs {
		if p.seen[agent] == nil {
			p.seen[agent] = make(map[string]struct{})
		}
		if _, dup := p.seen[agent][id]; dup {
			continue
		}
		if _, ok := p.units[agent]; !ok {
			p.order = append(p.order, agent)
		}
		p.seen[agent][id] = struct{}{}
		p.units[agent] = append(p.units[agent], id)
	}
}

// Agents returns the assigned agent names in insertion order. Agents with an
// empty unit list never appear: Add only records an agent alongside a unit.
func (p *Plan) Agents() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Units returns the unit ids assigned to agent, in assignment order.
func (p *Plan) Units(agent string) []string {
	src := p.units[agent]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Pair is one (agent, unit) dispatch target.
type Pair struct {
	Agent  string
	UnitID string
}

// Pairs flattens the plan into dispatch order: agents in insertion order,
// each agent's units in assignment order.
func (p *Plan) Pairs() []Pair {
	var pairs []Pair
	for _, ag := range p.order {
		for _, id := range p.units[ag] {
			pairs = append(pairs, Pair{Agent: ag, UnitID: id})
		}
	}
	return pairs
}

// Len returns the total number of (agent, unit) pairs.
func (p *Plan) Len() int {
	n := 0
	for _, ids := range p.units {
		n += len(ids)
	}
	return n
}

// Empty reports whether the plan assigns no units at all.
func (p *Plan) Empty() bool { return p.Len() == 0 }
