// Package plan turns a planning oracle's freeform reply into a validated
// core.Plan and provides the deterministic round-robin fallback used when
// the oracle's output is absent, malformed or empty.
//
// Two reply conventions are recognized: a line grammar
// ("agent: id1,id2" or "agent: m-n") and a JSON object
// ({"agent": ["unit or subtask", ...]}). Decode accepts either.
package plan

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/zeyuyuyu/agent-v8/core"
)

// DefaultPagePrefix is the identifier prefix assumed for range tokens whose
// start bound carries no prefix of its own.
const DefaultPagePrefix = "page_"

// Parse applies the line grammar to text. Rules:
//   - a line without ':' is ignored;
//   - the agent name is the trimmed substring before the first ':'; lines
//     naming an agent outside the registry are discarded whole;
//   - the remainder is split on commas after stripping spaces; a token is a
//     bare identifier or an inclusive "start-end" range;
//   - a range reuses start's non-numeric prefix (or defaultPrefix when start
//     is a bare number) for every generated identifier; reversed bounds
//     (end < start) make the token malformed and it is dropped;
//   - duplicate identifiers for one agent are dropped, first occurrence
//     wins; agents that end up with no units are absent from the result.
func Parse(text string, registry *core.Registry, defaultPrefix string) *core.Plan {
	p := core.NewPlan()
	for _, line := range strings.Split(text, "\n") {
		agent, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		agent = strings.TrimSpace(agent)
		if !registry.Has(agent) {
			continue
		}
		rest = strings.ReplaceAll(rest, " ", "")
		for _, token := range strings.Split(rest, ",") {
			if token == "" {
				continue
			}
			if start, end, isRange := splitRange(token); isRange {
				p.Add(agent, expandRange(start, end, defaultPrefix)...)
				continue
			}
			p.Add(agent, token)
		}
	}
	return p
}

// splitRange detects a "start-end" token. Only a single dash separates the
// bounds; tokens with more dashes are treated as bare identifiers.
func splitRange(token string) (start, end string, ok bool) {
	if strings.Count(token, "-") != 1 {
		return "", "", false
	}
	start, end, _ = strings.Cut(token, "-")
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

// expandRange expands an inclusive numeric range, reusing start's prefix.
// Malformed bounds (no numeric suffix, or end < start) yield nothing.
func expandRange(start, end, defaultPrefix string) []string {
	prefix, lo, ok := splitSuffix(start)
	if !ok {
		return nil
	}
	_, hi, ok := splitSuffix(end)
	if !ok || hi < lo {
		return nil
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	ids := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		ids = append(ids, prefix+strconv.Itoa(i))
	}
	return ids
}

// splitSuffix splits an identifier into its prefix and trailing number.
func splitSuffix(id string) (prefix string, n int, ok bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return "", 0, false
	}
	return id[:i], n, true
}

// ParseJSON applies the JSON object convention: {"agent": [unit, ...]}.
// Keys outside the registry and values that are not arrays of strings are
// dropped. Code fences around the object are tolerated.
func ParseJSON(text string, registry *core.Registry) *core.Plan {
	p := core.NewPlan()
	v := gjson.Parse(stripFences(text))
	if !v.IsObject() {
		return p
	}
	v.ForEach(func(key, value gjson.Result) bool {
		agent := key.String()
		if !registry.Has(agent) || !value.IsArray() {
			return true
		}
		for _, e := range value.Array() {
			if s := e.String(); s != "" {
				p.Add(agent, s)
			}
		}
		return true
	})
	return p
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// Decode accepts either oracle reply convention: the JSON object shape is
// tried first, then the line grammar.
func Decode(text string, registry *core.Registry, defaultPrefix string) *core.Plan {
	if p := ParseJSON(text, registry); !p.Empty() {
		return p
	}
	return Parse(text, registry, defaultPrefix)
}

// RoundRobin assigns unit i to agent i mod K over the registry's declaration
// order. It is deterministic and always non-empty when there is at least one
// unit and one agent.
func RoundRobin(unitIDs []string, registry *core.Registry) *core.Plan {
	p := core.NewPlan()
	names := registry.Names()
	if len(names) == 0 {
		return p
	}
	for i, id := range unitIDs {
		p.Add(names[i%len(names)], id)
	}
	return p
}
