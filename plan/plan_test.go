package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeyuyuyu/agent-v8/core"
)

func testRegistry() *core.Registry {
	return core.NewRegistry(
		core.AgentDef{Name: "agentA", Endpoint: "http://a/run"},
		core.AgentDef{Name: "agentB", Endpoint: "http://b/run"},
	)
}

func TestParse_UnrecognizedAgentsYieldEmptyPlan(t *testing.T) {
	text := "ghost: page_1,page_2\nsomeone_else: page_3"
	p := Parse(text, testRegistry(), DefaultPagePrefix)
	assert.True(t, p.Empty())
}

func TestParse_LinesWithoutSeparatorIgnored(t *testing.T) {
	text := "here is my assignment\nagentA: page_1\nthanks"
	p := Parse(text, testRegistry(), DefaultPagePrefix)
	assert.Equal(t, []string{"page_1"}, p.Units("agentA"))
	assert.Equal(t, 1, p.Len())
}

func TestParse_RangeExpansion(t *testing.T) {
	reg := core.NewRegistry(core.AgentDef{Name: "llama2_agent", Endpoint: "http://a/run"})
	p := Parse("llama2_agent: page_2-page_4", reg, DefaultPagePrefix)
	assert.Equal(t, []string{"page_2", "page_3", "page_4"}, p.Units("llama2_agent"))
}

func TestParse_RangeWithBareNumbersUsesDefaultPrefix(t *testing.T) {
	p := Parse("agentA: 1-3", testRegistry(), DefaultPagePrefix)
	assert.Equal(t, []string{"page_1", "page_2", "page_3"}, p.Units("agentA"))
}

func TestParse_RangeCountAndOrder(t *testing.T) {
	p := Parse("agentA: page_3-page_7", testRegistry(), DefaultPagePrefix)
	units := p.Units("agentA")
	assert.Len(t, units, 5) // b - a + 1
	for i := 1; i < len(units); i++ {
		assert.Less(t, units[i-1], units[i])
	}
}

func TestParse_ReversedRangeRejected(t *testing.T) {
	p := Parse("agentA: page_5-page_3,page_1", testRegistry(), DefaultPagePrefix)
	assert.Equal(t, []string{"page_1"}, p.Units("agentA"))
}

func TestParse_NonNumericBoundsRejected(t *testing.T) {
	p := Parse("agentA: intro-end", testRegistry(), DefaultPagePrefix)
	assert.True(t, p.Empty())
}

func TestParse_DuplicatesAcrossLinesDeduplicated(t *testing.T) {
	text := "agentA: page_1,page_2\nagentA: page_2,page_3"
	p := Parse(text, testRegistry(), DefaultPagePrefix)
	assert.Equal(t, []string{"page_1", "page_2", "page_3"}, p.Units("agentA"))
}

func TestParse_SpacesStripped(t *testing.T) {
	p := Parse("agentA : page_1 , page_2", testRegistry(), DefaultPagePrefix)
	assert.Equal(t, []string{"page_1", "page_2"}, p.Units("agentA"))
}

func TestParse_EmptyInput(t *testing.T) {
	assert.True(t, Parse("", testRegistry(), DefaultPagePrefix).Empty())
}

func TestParseJSON_ObjectShape(t *testing.T) {
	text := `{"agentA": ["research pricing", "draft outline"], "agentB": ["review draft"], "ghost": ["ignored"]}`
	p := ParseJSON(text, testRegistry())
	assert.Equal(t, []string{"research pricing", "draft outline"}, p.Units("agentA"))
	assert.Equal(t, []string{"review draft"}, p.Units("agentB"))
	assert.Equal(t, []string{"agentA", "agentB"}, p.Agents())
}

func TestParseJSON_ToleratesCodeFences(t *testing.T) {
	text := "```json\n{\"agentA\": [\"page_1\"]}\n```"
	p := ParseJSON(text, testRegistry())
	assert.Equal(t, []string{"page_1"}, p.Units("agentA"))
}

func TestParseJSON_GarbledInputYieldsEmptyPlan(t *testing.T) {
	assert.True(t, ParseJSON("I could not decide on a plan.", testRegistry()).Empty())
	assert.True(t, ParseJSON(`{"agentA": "not an array"}`, testRegistry()).Empty())
}

func TestDecode_AcceptsBothConventions(t *testing.T) {
	reg := testRegistry()

	fromJSON := Decode(`{"agentA": ["page_1"]}`, reg, DefaultPagePrefix)
	assert.Equal(t, []string{"page_1"}, fromJSON.Units("agentA"))

	fromLines := Decode("agentA: page_1-page_2", reg, DefaultPagePrefix)
	assert.Equal(t, []string{"page_1", "page_2"}, fromLines.Units("agentA"))
}

func TestRoundRobin_FivePagesTwoAgents(t *testing.T) {
	ids := []string{"page_1", "page_2", "page_3", "page_4", "page_5"}
	p := RoundRobin(ids, testRegistry())
	assert.Equal(t, []string{"page_1", "page_3", "page_5"}, p.Units("agentA"))
	assert.Equal(t, []string{"page_2", "page_4"}, p.Units("agentB"))
}

func TestRoundRobin_Deterministic(t *testing.T) {
	ids := []string{"page_1", "page_2", "page_3"}
	reg := testRegistry()
	first := RoundRobin(ids, reg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.Pairs(), RoundRobin(ids, reg).Pairs())
	}
}

func TestRoundRobin_EmptyInputs(t *testing.T) {
	assert.True(t, RoundRobin(nil, testRegistry()).Empty())
	assert.True(t, RoundRobin([]string{"page_1"}, core.NewRegistry()).Empty())
}
