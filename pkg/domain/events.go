package domain

import (
	"context"
	"time"
)

// RunEvent describes the start or the end of a run.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	// Mode is "ask" for blocking runs and "stream" for incremental ones.
	Mode     string        `json:"mode"`
	Steps    int           `json:"steps,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Node      string        `json:"node"`
	Step      int           `json:"step"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunEnd    func(context.Context, *RunEvent)
	OnNodeEnter func(context.Context, *NodeEvent)
	OnNodeLeave func(context.Context, *NodeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:  chainRun(h.OnRunStart, other.OnRunStart),
		OnRunEnd:    chainRun(h.OnRunEnd, other.OnRunEnd),
		OnNodeEnter: chainNode(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeLeave: chainNode(h.OnNodeLeave, other.OnNodeLeave),
	}
}

func chainRun(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainNode(a, b func(context.Context, *NodeEvent)) func(context.Context, *NodeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
