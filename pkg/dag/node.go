package dag

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
)

// Kind distinguishes plain tasks from branch points.
type Kind string

const (
	KindTask   Kind = "task"
	KindBranch Kind = "branch"
)

// TriggerRule decides whether a node runs given the final state of its upstream edges.
type TriggerRule string

const (
	// AllSuccess runs only when every upstream edge succeeded. Any skipped edge skips the node.
	AllSuccess TriggerRule = "all_success"
	// NoneFailedMinOneSuccess runs when no upstream failed and at least one succeeded.
	NoneFailedMinOneSuccess TriggerRule = "none_failed_min_one_success"
)

// Retry settings understood by the runner.
const (
	// DefaultRetries, the zero value, uses the runner's retry policy.
	DefaultRetries = 0
	// NoRetries runs the node exactly once.
	NoRetries = -1
)

// Action is the work done by a node. Branch actions must return a Selection.
type Action func(ctx context.Context, rc *RunContext) (any, error)

// Selection is returned by branch actions to name the downstream tasks that should run.
type Selection interface {
	Tasks() []domain.TaskID
	String() string
}

// Node is a vertex of the task graph.
type Node struct {
	ID          domain.TaskID
	Kind        Kind
	Description string
	Upstream    []domain.TaskID
	Trigger     TriggerRule

	// Retries is the number of extra attempts after a failure,
	// DefaultRetries (zero) or NoRetries.
	Retries    int
	RetryDelay time.Duration

	Action Action
}

// RunContext is the state shared by the tasks of one run.
// Outputs play the role of cross-task messages; the Oven is the run's own oven.
type RunContext struct {
	RunID string
	Oven  *domain.Oven

	mu      sync.RWMutex
	outputs map[domain.TaskID]any
}

// NewRunContext creates the context of a fresh run with a cold oven.
func NewRunContext(runID string) *RunContext {
	return &RunContext{
		RunID:   runID,
		Oven:    domain.NewOven(),
		outputs: make(map[domain.TaskID]any),
	}
}

// SetOutput records the value returned by a task.
func (rc *RunContext) SetOutput(id domain.TaskID, v any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.outputs[id] = v
}

// Output returns the value returned by a task, if it ran.
func (rc *RunContext) Output(id domain.TaskID) (any, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	v, ok := rc.outputs[id]
	return v, ok
}

// Bool returns a boolean task output. Missing or non-boolean outputs read as false.
func (rc *RunContext) Bool(id domain.TaskID) bool {
	v, _ := rc.Output(id)
	b, _ := v.(bool)
	return b
}
