// Package dispatch executes the (agent, unit) pairs of an assignment plan
// against the agents' registered HTTP endpoints. Every unit failure is
// isolated: it becomes a marker string in the unit's result and trace entry,
// never an error that aborts sibling units or the run.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/zeyuyuyu/agent-v8/core"
	"github.com/zeyuyuyu/agent-v8/logging"
	"github.com/zeyuyuyu/agent-v8/progress"
)

// FailureMarker prefixes the synthesized result text of a failed agent call.
const FailureMarker = "[call failed]"

// Options configure an Executor.
type Options struct {
	// Client used for agent calls. Defaults to http.DefaultClient.
	Client *http.Client
	// CallTimeout bounds each agent call. Defaults to 120s.
	CallTimeout time.Duration
	// PerEndpointLimit caps in-flight calls per agent endpoint. Remote
	// agents are commodity inference servers with limited capacity.
	// Defaults to 4; 1 gives sequential dispatch per agent.
	PerEndpointLimit int
	// Logger for call outcomes. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Executor sends unit prompts to remote agents and records the outcomes.
// Safe for concurrent use; one Run call handles one plan.
type Executor struct {
	client  *http.Client
	timeout time.Duration
	limit   int
	logger  logging.Logger
}

// NewExecutor constructs an Executor with optional overrides.
func NewExecutor(optFns ...func(o *Options)) *Executor {
	opts := Options{
		Client:           http.DefaultClient,
		CallTimeout:      120 * time.Second,
		PerEndpointLimit: 4,
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.PerEndpointLimit <= 0 {
		opts.PerEndpointLimit = 1
	}
	return &Executor{
		client:  opts.Client,
		timeout: opts.CallTimeout,
		limit:   opts.PerEndpointLimit,
		logger:  opts.Logger,
	}
}

// RunInput carries everything one dispatch round needs.
type RunInput struct {
	ContextID string
	Plan      *core.Plan
	Registry  *core.Registry
	// Prompt builds the outbound prompt for a unit id.
	Prompt func(unitID string) string
	// UnitKey is the extra payload field name carrying the unit id for
	// this run mode ("page_id" for document runs, "chunk_id" for chunk
	// runs). "sub_id" is always sent.
	UnitKey string
	Memory  core.MemoryStore
	Emitter *progress.Emitter
}

// Run dispatches every (agent, unit) pair of the plan. Pairs run
// concurrently, bounded per endpoint; the returned trace is indexed by plan
// order so it is deterministic regardless of completion order, with exactly
// one entry per pair attempted.
//
// Agent calls run on a timeout context detached from ctx's cancellation: a
// caller that disconnects mid-run stops receiving events, but in-flight
// units complete and still land in the memory store.
func (e *Executor) Run(ctx context.Context, in RunInput) []core.TraceEntry {
	pairs := in.Plan.Pairs()
	trace := make([]core.TraceEntry, len(pairs))

	sems := make(map[string]chan struct{})
	for _, ag := range in.Plan.Agents() {
		sems[ag] = make(chan struct{}, e.limit)
	}

	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		go func(idx int, p core.Pair) {
			defer wg.Done()
			sem := sems[p.Agent]
			sem <- struct{}{}
			defer func() { <-sem }()

			label := core.UnitLabel(p.UnitID)
			in.Emitter.Assign(p.Agent, label)

			text := e.callAgent(ctx, in, p.Agent, p.UnitID, label)

			in.Memory.MergeUnit(in.ContextID, p.Agent, label, text)
			trace[idx] = core.TraceEntry{Agent: p.Agent, UnitLabel: label, Output: text}
			in.Emitter.UnitDone(p.Agent, label, text)
		}(i, pair)
	}
	wg.Wait()
	return trace
}

// callAgent performs one POST round trip and normalizes the outcome to a
// result string. All failures collapse into a FailureMarker result.
func (e *Executor) callAgent(ctx context.Context, in RunInput, agent, unitID, label string) string {
	def, ok := in.Registry.Lookup(agent)
	if !ok {
		return fmt.Sprintf("%s unknown agent %q", FailureMarker, agent)
	}

	payload := map[string]any{
		"prompt":        in.Prompt(unitID),
		"context_id":    in.ContextID,
		"sub_id":        unitID,
		"agent_name":    agent,
		"shared_memory": in.Memory.Get(in.ContextID),
	}
	if in.UnitKey != "" && in.UnitKey != "sub_id" {
		payload[in.UnitKey] = unitID
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%s %v", FailureMarker, err)
	}

	// Detached from caller cancellation on purpose (see Run).
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, def.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("%s %v", FailureMarker, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("agent call failed", "agent", agent, "unit", unitID, "error", err)
		return fmt.Sprintf("%s %v", FailureMarker, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("%s read response: %v", FailureMarker, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn("agent call rejected", "agent", agent, "unit", unitID, "status", resp.StatusCode)
		return fmt.Sprintf("%s status %d", FailureMarker, resp.StatusCode)
	}

	result, err := normalizeResponse(raw, agent, label)
	if err != nil {
		return fmt.Sprintf("%s %v", FailureMarker, err)
	}
	e.logger.Debug("agent call completed", "agent", agent, "unit", unitID)
	return result.Text
}

// normalizeResponse folds the two recognized agent reply shapes into one
// canonical AgentResult:
//
//	{"result": "..."}                            -> the result string
//	{"memory_update": {"<agent>": {...}}}        -> that agent's entry for
//	                                                the unit, or the raw
//	                                                sub-map when absent
func normalizeResponse(raw []byte, agent, unitLabel string) (core.AgentResult, error) {
	if !gjson.ValidBytes(raw) {
		return core.AgentResult{}, fmt.Errorf("malformed response body")
	}
	if r := gjson.GetBytes(raw, "result"); r.Exists() {
		return core.AgentResult{AgentName: agent, UnitID: unitLabel, Text: r.String()}, nil
	}
	if mu := gjson.GetBytes(raw, "memory_update").Get(agent); mu.Exists() {
		if v := mu.Get(unitLabel); v.Exists() {
			return core.AgentResult{AgentName: agent, UnitID: unitLabel, Text: v.String()}, nil
		}
		return core.AgentResult{AgentName: agent, UnitID: unitLabel, Text: mu.Raw}, nil
	}
	return core.AgentResult{}, fmt.Errorf("response has neither result nor memory_update")
}
