package runner

import (
	"time"

	"github.com/aretw0/easybake/pkg/domain"
)

// State is the lifecycle state of a task within a run.
type State string

const (
	StatePending        State = "pending"
	StateRunning        State = "running"
	StateSuccess        State = "success"
	StateSkipped        State = "skipped"
	StateFailed         State = "failed"
	StateUpstreamFailed State = "upstream_failed"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	switch s {
	case StateSuccess, StateSkipped, StateFailed, StateUpstreamFailed:
		return true
	}
	return false
}

// Status is the overall outcome of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// TaskReport records what happened to one task.
type TaskReport struct {
	State    State     `json:"state"`
	Attempts int       `json:"attempts"`
	Output   any       `json:"output,omitempty"`
	Error    string    `json:"error,omitempty"`
	Started  time.Time `json:"started,omitzero"`
	Finished time.Time `json:"finished,omitzero"`

	Err error `json:"-"`
}

// Report summarises a finished run.
type Report struct {
	RunID    string                        `json:"run_id"`
	Status   Status                        `json:"status"`
	Decision string                        `json:"decision,omitempty"`
	Tasks    map[domain.TaskID]*TaskReport `json:"tasks"`
	// Order lists tasks in the order they reached a terminal state.
	Order    []domain.TaskID `json:"order"`
	Started  time.Time       `json:"started"`
	Finished time.Time       `json:"finished"`
}

// Succeeded reports whether the run finished without failures.
func (r *Report) Succeeded() bool {
	return r.Status == StatusSuccess
}

// State returns the state of a task, or StatePending if the task is unknown.
func (r *Report) State(id domain.TaskID) State {
	if t, ok := r.Tasks[id]; ok {
		return t.State
	}
	return StatePending
}

// Executed returns the tasks that ran successfully, in completion order.
func (r *Report) Executed() []domain.TaskID {
	var out []domain.TaskID
	for _, id := range r.Order {
		if r.Tasks[id].State == StateSuccess {
			out = append(out, id)
		}
	}
	return out
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
