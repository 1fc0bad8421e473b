// Package agentv8 provides a high-level façade over the orchestration core:
// a fixed registry of remote worker agents, an external text-generation
// oracle, and the scheduler that classifies, plans, dispatches and
// summarizes a submitted task. Most applications interact with this package
// by:
//  1. Creating a Coordinator via New() with a registry and an oracle
//  2. Calling Dispatch() with a task (optionally with an attached document
//     and a progress sink)
//  3. Reading the final markdown + execution trace from the Result
//
// All defaults are safe for local development and testing; production
// deployments typically supply a tuned executor and a structured logger.
package agentv8

import (
	"context"

	"github.com/zeyuyuyu/agent-v8/core"
	"github.com/zeyuyuyu/agent-v8/dispatch"
	"github.com/zeyuyuyu/agent-v8/logging"
	"github.com/zeyuyuyu/agent-v8/memory"
	"github.com/zeyuyuyu/agent-v8/oracle"
	"github.com/zeyuyuyu/agent-v8/scheduler"
	"github.com/zeyuyuyu/agent-v8/segment"
)

// Options configures the Coordinator.
type Options struct {
	// Memory accumulates per-context results (defaults to in-memory).
	Memory core.MemoryStore
	// Segmenter turns documents into work units (defaults to PDF, no OCR).
	Segmenter *segment.Segmenter
	// Executor performs the agent calls (defaults to dispatch defaults:
	// 120s call timeout, 4 in-flight calls per endpoint).
	Executor *dispatch.Executor
	// Logger (defaults to NoOpLogger).
	Logger logging.Logger
}

// Coordinator is the high-level façade aggregating the scheduler and its
// collaborators.
type Coordinator struct {
	scheduler *scheduler.Scheduler
}

// New creates a Coordinator with optional overrides. Any unset collaborator
// is initialized with its default implementation.
func New(registry *core.Registry, orc oracle.Oracle, optFns ...func(o *Options)) *Coordinator {
	opts := Options{
		Memory:    memory.NewInMemoryStore(),
		Segmenter: segment.NewSegmenter(),
		Executor:  dispatch.NewExecutor(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	sched := scheduler.New(registry, orc, func(o *scheduler.Options) {
		o.Memory = opts.Memory
		o.Segmenter = opts.Segmenter
		o.Executor = opts.Executor
		o.Logger = opts.Logger
	})

	return &Coordinator{scheduler: sched}
}

// Dispatch orchestrates one task to completion.
func (c *Coordinator) Dispatch(ctx context.Context, in scheduler.Input) (*scheduler.Result, error) {
	return c.scheduler.Dispatch(ctx, in)
}
