package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_AddDedupesPerAgent(t *testing.T) {
	p := NewPlan()
	p.Add("agentA", "page_1", "page_2")
	p.Add("agentA", "page_2", "page_3")
	p.Add("agentB", "page_1")

	assert.Equal(t, []string{"agentA", "agentB"}, p.Agents())
	assert.Equal(t, []string{"page_1", "page_2", "page_3"}, p.Units("agentA"))
	assert.Equal(t, []string{"page_1"}, p.Units("agentB"))
	assert.Equal(t, 4, p.Len())
}

func TestPlan_PairsFollowInsertionOrder(t *testing.T) {
	p := NewPlan()
	p.Add("b", "page_2")
	p.Add("a", "page_1")
	p.Add("b", "page_3")

	assert.Equal(t, []Pair{
		{Agent: "b", UnitID: "page_2"},
		{Agent: "b", UnitID: "page_3"},
		{Agent: "a", UnitID: "page_1"},
	}, p.Pairs())
}

func TestPlan_Empty(t *testing.T) {
	p := NewPlan()
	assert.True(t, p.Empty())
	assert.Empty(t, p.Agents())
	p.Add("a", "page_1")
	assert.False(t, p.Empty())
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	r := NewRegistry(
		AgentDef{Name: "agentB", Endpoint: "http://b"},
		AgentDef{Name: "agentA", Endpoint: "http://a"},
	)

	assert.Equal(t, []string{"agentB", "agentA"}, r.Names())
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Has("agentA"))
	assert.False(t, r.Has("agentC"))

	def, ok := r.Lookup("agentB")
	assert.True(t, ok)
	assert.Equal(t, "http://b", def.Endpoint)
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "Process page_3", UnitLabel("page_3"))
}
