package domain

// WorkflowState is the state of one run. It is created when the run starts, mutated only by
// the engine applying node updates and dropped when the run ends.
type WorkflowState struct {
	// RunID correlates logs, spans and frames of a single run.
	RunID string

	// UserQuery is the raw request text the run was started with.
	UserQuery string

	// Messages is append-only within a run unless a node explicitly replaces it.
	Messages []Message

	// History tracks the nodes executed so far, in order.
	History []string
}

// NewState creates a clean state for a run.
func NewState(runID, userQuery string) *WorkflowState {
	return &WorkflowState{
		RunID:     runID,
		UserQuery: userQuery,
		Messages:  []Message{},
		History:   []string{},
	}
}

// Last returns the most recently appended message.
func (s *WorkflowState) Last() (Message, bool) {
	if s == nil || len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Apply appends msgs to the state, or replaces the whole sequence when replace is set.
func (s *WorkflowState) Apply(msgs []Message, replace bool) {
	if replace {
		s.Messages = append([]Message(nil), msgs...)
		return
	}
	s.Messages = append(s.Messages, msgs...)
}

// Snapshot is emitted after each node transition of an incremental run.
type Snapshot struct {
	RunID string `json:"run_id"`
	Node  string `json:"node"`
	Step  int    `json:"step"`

	// Delta is the last message the node produced, so consumers can render only what changed.
	// It is the zero Message when the node produced nothing.
	Delta Message `json:"delta"`

	// Messages is a copy of the full sequence at the time of the snapshot.
	Messages []Message `json:"messages"`
}

// HasDelta reports whether the node produced a message in this step.
func (s Snapshot) HasDelta() bool {
	return s.Delta.Role != ""
}

// Snapshot captures the state after node finished its step. produced is what the node
// returned; its last message becomes the delta.
func (s *WorkflowState) Snapshot(node string, step int, produced []Message) Snapshot {
	var delta Message
	if n := len(produced); n > 0 {
		delta = produced[n-1]
	}
	return Snapshot{
		RunID:    s.RunID,
		Node:     node,
		Step:     step,
		Delta:    delta,
		Messages: append([]Message(nil), s.Messages...),
	}
}
