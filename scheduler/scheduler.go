// Package scheduler hosts the top-level orchestration state machine. A run
// moves through CLASSIFY -> {DIRECT_ANSWER | PLAN} -> DISPATCH -> SUMMARIZE,
// delegating each concern to an injected collaborator: the oracle decides,
// the plan package validates, the executor dispatches, the memory store
// accumulates, and the progress emitter keeps the caller informed.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zeyuyuyu/agent-v8/core"
	"github.com/zeyuyuyu/agent-v8/dispatch"
	"github.com/zeyuyuyu/agent-v8/logging"
	"github.com/zeyuyuyu/agent-v8/memory"
	"github.com/zeyuyuyu/agent-v8/oracle"
	"github.com/zeyuyuyu/agent-v8/plan"
	"github.com/zeyuyuyu/agent-v8/progress"
	"github.com/zeyuyuyu/agent-v8/segment"
)

// Options hold the collaborator overrides passed to New().
type Options struct {
	// Memory accumulates per-context results. Defaults to a fresh
	// in-memory store.
	Memory core.MemoryStore
	// Segmenter turns documents into work units. Defaults to the PDF
	// segmenter without OCR.
	Segmenter *segment.Segmenter
	// Executor performs the agent calls. Defaults to dispatch defaults.
	Executor *dispatch.Executor
	// Logger for state transitions. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Scheduler sequences one orchestration run at a time per Dispatch call.
// Public methods are safe for concurrent use; concurrent runs sharing a
// context id accumulate into the same memory entries.
type Scheduler struct {
	registry  *core.Registry
	oracle    oracle.Oracle
	memory    core.MemoryStore
	segmenter *segment.Segmenter
	executor  *dispatch.Executor
	logger    logging.Logger
}

// New constructs a Scheduler over a fixed agent registry and an oracle.
func New(registry *core.Registry, orc oracle.Oracle, optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Memory:    memory.NewInMemoryStore(),
		Segmenter: segment.NewSegmenter(),
		Executor:  dispatch.NewExecutor(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scheduler{
		registry:  registry,
		oracle:    orc,
		memory:    opts.Memory,
		segmenter: opts.Segmenter,
		executor:  opts.Executor,
		logger:    opts.Logger,
	}
}

// Input describes one task submitted for orchestration.
type Input struct {
	// ContextID keys the run's memory. Empty means a fresh id per run;
	// reusing an id across runs accumulates memory, by caller choice.
	ContextID string
	// Task is the free-text instruction.
	Task string
	// Document is an optional attached document (PDF bytes). Its presence
	// forces the planning path; classification is skipped.
	Document []byte
	// Sink optionally receives ordered progress events.
	Sink progress.Sink
}

// Result is the final artifact of a run. Markdown is always non-empty;
// Trace holds exactly one entry per (agent, unit) pair attempted; Memory is
// the context's final snapshot including the "summary" entry when one was
// produced.
type Result struct {
	ContextID string
	Markdown  string
	Trace     []core.TraceEntry
	Memory    map[string]any
}

// Dispatch runs the state machine to completion. The returned error is
// non-nil only for segmentation failures — the one class that prevents any
// unit from being produced. Every other failure is folded into result data,
// and the "done" progress event fires exactly once on every successful
// return path.
func (s *Scheduler) Dispatch(ctx context.Context, in Input) (*Result, error) {
	contextID := in.ContextID
	if contextID == "" {
		contextID = core.NewID()
	}
	emitter := progress.NewEmitter(in.Sink)

	if len(in.Document) > 0 {
		return s.runDocument(ctx, contextID, in.Task, in.Document, emitter)
	}
	return s.runText(ctx, contextID, in.Task, emitter)
}

// runDocument is the PLAN path for attached documents: segment pages, ask
// the oracle for a page plan, fall back to round-robin when the plan is
// unusable, dispatch and summarize.
func (s *Scheduler) runDocument(ctx context.Context, contextID, task string, doc []byte, emitter *progress.Emitter) (*Result, error) {
	units, err := s.segmenter.Pages(ctx, doc)
	if err != nil {
		return nil, err
	}
	pageIDs := make([]string, len(units))
	labels := make([]string, len(units))
	pageText := make(map[string]string, len(units))
	for i, u := range units {
		pageIDs[i] = u.ID
		labels[i] = core.UnitLabel(u.ID)
		pageText[u.ID] = u.Text
	}
	emitter.Subtasks(labels)

	pl := s.planPages(ctx, task, pageIDs)
	if pl.Empty() {
		s.logger.Info("page plan empty, using round-robin fallback", "pages", len(pageIDs))
		pl = plan.RoundRobin(pageIDs, s.registry)
	}
	s.logger.Info("dispatching document plan", "context_id", contextID, "pairs", pl.Len())

	trace := s.executor.Run(ctx, dispatch.RunInput{
		ContextID: contextID,
		Plan:      pl,
		Registry:  s.registry,
		Prompt: func(unitID string) string {
			return fmt.Sprintf("Task instruction: %s\n\nSource text of %s:\n%s", task, unitID, pageText[unitID])
		},
		UnitKey: "page_id",
		Memory:  s.memory,
		Emitter: emitter,
	})

	markdown := s.summarize(ctx, contextID)
	emitter.Done(markdown)
	return s.result(contextID, markdown, trace), nil
}

// runText is the flat-text path: classify, and either answer directly or
// decompose into oracle-defined subtasks.
func (s *Scheduler) runText(ctx context.Context, contextID, task string, emitter *progress.Emitter) (*Result, error) {
	if !s.needSplit(ctx, task) {
		return s.answerDirect(ctx, contextID, task, emitter), nil
	}

	pl := s.planSubtasks(ctx, task)
	if pl.Empty() {
		// Decomposition failed; fall back to the simpler terminal path
		// rather than failing the run.
		s.logger.Info("subtask plan empty, answering directly", "context_id", contextID)
		return s.answerDirect(ctx, contextID, task, emitter), nil
	}

	units := segment.SubtaskUnits(pl)
	labels := make([]string, len(units))
	for i, u := range units {
		labels[i] = core.UnitLabel(u.ID)
	}
	emitter.Subtasks(labels)
	s.logger.Info("dispatching subtask plan", "context_id", contextID, "pairs", len(units))

	trace := s.executor.Run(ctx, dispatch.RunInput{
		ContextID: contextID,
		Plan:      pl,
		Registry:  s.registry,
		Prompt: func(unitID string) string {
			return fmt.Sprintf("Overall task: %s\n\nSubtask: %s", task, unitID)
		},
		UnitKey: "sub_id",
		Memory:  s.memory,
		Emitter: emitter,
	})

	markdown := s.summarize(ctx, contextID)
	emitter.Done(markdown)
	return s.result(contextID, markdown, trace), nil
}

// needSplit asks the oracle whether a flat-text task benefits from
// decomposition. A malformed or failed answer defaults to "no split": the
// simpler terminal path can always produce an answer, escalation cannot.
func (s *Scheduler) needSplit(ctx context.Context, task string) bool {
	reply, err := s.oracle.Complete(ctx, oracle.Request{
		System: "You are a task complexity assessor. Answer only 'yes' or 'no'. " +
			"Answer 'yes' if and only if the task must be split into subtasks to be completed efficiently; otherwise answer 'no'.",
		User:      "Task: " + task,
		MaxTokens: 1,
	})
	if err != nil {
		s.logger.Warn("classification failed, defaulting to no split", "error", err)
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "y")
}

// planPages asks the oracle to assign page ids to agents. Both the line
// grammar and the JSON object reply conventions are accepted; a failed call
// yields an empty plan and therefore the round-robin fallback.
func (s *Scheduler) planPages(ctx context.Context, task string, pageIDs []string) *core.Plan {
	reply, err := s.oracle.Complete(ctx, oracle.Request{
		System: "You are a task scheduling expert. Assign the listed pages to these agents: " +
			s.agentRoster() +
			". Reply with one line per agent, in the form 'agent: id1,id2' or 'agent: m-n'. Return only the assignment.",
		User: fmt.Sprintf("Task: %s\nPages: %s", task, strings.Join(pageIDs, ", ")),
	})
	if err != nil {
		s.logger.Warn("page planning failed", "error", err)
		return core.NewPlan()
	}
	return plan.Decode(reply, s.registry, plan.DefaultPagePrefix)
}

// planSubtasks asks the oracle to decompose a flat task into assigned
// subtasks. The JSON object shape is requested but the line grammar is
// accepted too.
func (s *Scheduler) planSubtasks(ctx context.Context, task string) *core.Plan {
	reply, err := s.oracle.Complete(ctx, oracle.Request{
		System: "You are a task scheduling expert. Split the task into subtasks that can run in parallel and assign them to these agents: " +
			s.agentRoster() +
			`. Reply with a single JSON object and no extra text, for example: {"agent_a": ["subtask 1", "subtask 2"], "agent_b": ["subtask 3"]}`,
		User:       "Task: " + task,
		JSONObject: true,
	})
	if err != nil {
		s.logger.Warn("subtask planning failed", "error", err)
		return core.NewPlan()
	}
	return plan.Decode(reply, s.registry, "chunk_")
}

// answerDirect is the DIRECT_ANSWER terminal shortcut: one markdown oracle
// call, zero trace entries. An oracle failure still yields a non-empty
// marker markdown, never an error.
func (s *Scheduler) answerDirect(ctx context.Context, contextID, task string, emitter *progress.Emitter) *Result {
	markdown, err := s.oracle.Complete(ctx, oracle.Request{
		User: "Answer the following task fully, formatted as Markdown:\n\n" + strings.TrimSpace(task),
	})
	if err != nil {
		s.logger.Warn("direct answer failed", "error", err)
		markdown = fmt.Sprintf("[answer failed] %v", err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		markdown = "[answer failed] empty oracle reply"
	}
	emitter.Done(markdown)
	return s.result(contextID, markdown, nil)
}

// summarize collects every agent's accumulated unit results for the context
// and asks the oracle for the final synthesis, storing it under "summary".
// A failed synthesis yields a marker markdown, never an error.
func (s *Scheduler) summarize(ctx context.Context, contextID string) string {
	collected := s.collect(contextID)
	markdown, err := s.oracle.Complete(ctx, oracle.Request{
		User: "Combine the following outputs from the worker agents into one coherent summary. Return the result as Markdown:\n\n" + collected,
	})
	if err != nil {
		s.logger.Warn("summarization failed", "error", err)
		markdown = fmt.Sprintf("[summary failed] %v", err)
	}
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		markdown = "[summary failed] empty oracle reply"
	}
	s.memory.Update(contextID, map[string]any{"summary": markdown})
	return markdown
}

// collect renders the memory snapshot's per-agent unit results in registry
// order, unit labels sorted for a stable prompt.
func (s *Scheduler) collect(contextID string) string {
	snapshot := s.memory.Get(contextID)
	var sb strings.Builder
	for _, name := range s.registry.Names() {
		sub, ok := snapshot[name].(map[string]string)
		if !ok || len(sub) == 0 {
			continue
		}
		labels := make([]string, 0, len(sub))
		for label := range sub {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "## %s\n", name)
		for _, label := range labels {
			sb.WriteString(sub[label])
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// agentRoster renders the registry for planning prompts, with capability
// hints when present.
func (s *Scheduler) agentRoster() string {
	names := s.registry.Names()
	parts := make([]string, len(names))
	for i, name := range names {
		def, _ := s.registry.Lookup(name)
		if def.Capability != "" {
			parts[i] = fmt.Sprintf("%s (%s)", name, def.Capability)
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, ", ")
}

func (s *Scheduler) result(contextID, markdown string, trace []core.TraceEntry) *Result {
	if trace == nil {
		trace = []core.TraceEntry{}
	}
	return &Result{
		ContextID: contextID,
		Markdown:  markdown,
		Trace:     trace,
		Memory:    s.memory.Get(contextID),
	}
}
