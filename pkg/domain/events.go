package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTaskStart  EventType = "task_start"
	EventTaskFinish EventType = "task_finish"
	EventBranch     EventType = "branch"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// TaskEvent represents a task attempt starting or finishing.
type TaskEvent struct {
	EventBase
	TaskID   TaskID        `json:"task_id"`
	Attempt  int           `json:"attempt"`
	Status   string        `json:"status,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// BranchEvent reports the task set chosen by a branch node.
type BranchEvent struct {
	EventBase
	TaskID   TaskID   `json:"task_id"`
	Decision string   `json:"decision"`
	Selected []TaskID `json:"selected"`
}

// LifecycleHooks defines callbacks for runner observability.
type LifecycleHooks struct {
	OnTaskStart  func(context.Context, *TaskEvent)
	OnTaskFinish func(context.Context, *TaskEvent)
	OnBranch     func(context.Context, *BranchEvent)
}

// ChainHooks returns hooks that call each of the given hooks in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTaskStart: func(ctx context.Context, e *TaskEvent) {
			for _, h := range hooks {
				if h.OnTaskStart != nil {
					h.OnTaskStart(ctx, e)
				}
			}
		},
		OnTaskFinish: func(ctx context.Context, e *TaskEvent) {
			for _, h := range hooks {
				if h.OnTaskFinish != nil {
					h.OnTaskFinish(ctx, e)
				}
			}
		},
		OnBranch: func(ctx context.Context, e *BranchEvent) {
			for _, h := range hooks {
				if h.OnBranch != nil {
					h.OnBranch(ctx, e)
				}
			}
		},
	}
}
