package core

// ProgressStatus tags the kind of a ProgressEvent. The wire values match
// what streaming front-ends expect in the "status" field.
type ProgressStatus string

const (
	// ProgressSubtasks announces the full list of unit labels before any
	// dispatch happens. Emitted at most once per run, always first.
	ProgressSubtasks ProgressStatus = "subtasks"
	// ProgressAssign marks a unit handed to an agent, before the call.
	ProgressAssign ProgressStatus = "assign"
	// ProgressUnitDone marks a unit call finished (success or failure).
	ProgressUnitDone ProgressStatus = "unit_done"
	// ProgressDone carries the final markdown. Always last, exactly once.
	ProgressDone ProgressStatus = "done"
)

// ProgressEvent is one record in the ordered lifecycle stream a caller
// observes during a run. Only the fields relevant to the Status kind are
// populated; the JSON shape is stable for streaming transports.
type ProgressEvent struct {
	Status   ProgressStatus `json:"status"`
	Subtasks []string       `json:"subtasks,omitempty"`
	Agent    string         `json:"agent,omitempty"`
	Subtask  string         `json:"subtask,omitempty"`
	Output   string         `json:"output,omitempty"`
	Markdown string         `json:"markdown,omitempty"`
}

// NewSubtasksEvent announces the planned unit labels.
func NewSubtasksEvent(labels []string) ProgressEvent {
	return ProgressEvent{Status: ProgressSubtasks, Subtasks: labels}
}

// NewAssignEvent marks a unit assigned to an agent.
func NewAssignEvent(agent, unitLabel string) ProgressEvent {
	return ProgressEvent{Status: ProgressAssign, Agent: agent, Subtask: unitLabel, Output: "Processing"}
}

// NewUnitDoneEvent marks a unit call completed with its output text.
func NewUnitDoneEvent(agent, unitLabel, output string) ProgressEvent {
	return ProgressEvent{Status: ProgressUnitDone, Agent: agent, Subtask: unitLabel, Output: output}
}

// NewDoneEvent carries the final synthesized markdown.
func NewDoneEvent(markdown string) ProgressEvent {
	return ProgressEvent{Status: ProgressDone, Markdown: markdown}
}
