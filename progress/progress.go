// Package progress delivers the ordered lifecycle events of a dispatch run
// to an observing caller. The emitter is a single-producer queue per run:
// events arrive in exactly the order the state machine produced them, with
// the subtask listing first and "done" last, exactly once.
package progress

import (
	"sync"
	"sync/atomic"

	"github.com/zeyuyuyu/agent-v8/core"
)

// Sink receives progress events. Push must not block for long; slow
// consumers should buffer or drop on their side of the interface.
type Sink interface {
	Push(ev core.ProgressEvent)
}

// FuncSink adapts a plain function to the Sink interface.
type FuncSink func(ev core.ProgressEvent)

// Push implements Sink.
func (f FuncSink) Push(ev core.ProgressEvent) { f(ev) }

// Emitter serializes event delivery for one run and enforces the terminal
// invariant: after Done fires once, every further event is discarded. This
// is what makes caller disconnects safe — in-flight workers keep emitting,
// the emitter just drops on the floor once the run is sealed. A nil sink
// turns the emitter into a no-op.
type Emitter struct {
	mu   sync.Mutex
	sink Sink
	done bool
}

// NewEmitter wraps a sink (which may be nil) for one run.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Subtasks announces the planned unit labels.
func (e *Emitter) Subtasks(labels []string) {
	e.push(core.NewSubtasksEvent(labels))
}

// Assign marks a unit handed to an agent, before the call goes out.
func (e *Emitter) Assign(agent, unitLabel string) {
	e.push(core.NewAssignEvent(agent, unitLabel))
}

// UnitDone marks a unit call finished, success or failure.
func (e *Emitter) UnitDone(agent, unitLabel, output string) {
	e.push(core.NewUnitDoneEvent(agent, unitLabel, output))
}

// Done delivers the final markdown and seals the emitter. Only the first
// call has any effect.
func (e *Emitter) Done(markdown string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return
	}
	e.done = true
	if e.sink != nil {
		e.sink.Push(core.NewDoneEvent(markdown))
	}
}

func (e *Emitter) push(ev core.ProgressEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done || e.sink == nil {
		return
	}
	e.sink.Push(ev)
}

// ChannelSink buffers events on a channel for streaming transports. Push
// never blocks: when the consumer stops draining, events are counted as
// dropped instead of stalling dispatch workers.
type ChannelSink struct {
	ch      chan core.ProgressEvent
	dropped atomic.Uint64
}

var _ Sink = (*ChannelSink)(nil)

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(bufferSize int) *ChannelSink {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &ChannelSink{ch: make(chan core.ProgressEvent, bufferSize)}
}

// Push implements Sink.
func (c *ChannelSink) Push(ev core.ProgressEvent) {
	select {
	case c.ch <- ev:
	default:
		c.dropped.Add(1)
	}
}

// Events returns the receive side for the consumer.
func (c *ChannelSink) Events() <-chan core.ProgressEvent { return c.ch }

// Dropped returns how many events were discarded because the buffer was full.
func (c *ChannelSink) Dropped() uint64 { return c.dropped.Load() }

// Close closes the event channel. Call only after the run is finished.
func (c *ChannelSink) Close() { close(c.ch) }

// Collector records every pushed event, for tests.
type Collector struct {
	mu     sync.Mutex
	events []core.ProgressEvent
}

var _ Sink = (*Collector)(nil)

// Push implements Sink.
func (c *Collector) Push(ev core.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

// Events returns a copy of the recorded events in arrival order.
func (c *Collector) Events() []core.ProgressEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.ProgressEvent, len(c.events))
	copy(out, c.events)
	return out
}
