package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/google/uuid"
)

// ErrInvalidSelection is returned when a branch action does not yield a dag.Selection.
var ErrInvalidSelection = errors.New("branch did not return a selection")

// Runner executes task graphs.
type Runner struct {
	workers    int
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	newRunID   func() string
}

// New creates a Runner with the default policy: 4 workers, one retry after 5s.
func New(opts ...Option) *Runner {
	r := &Runner{
		workers:    DefaultWorkers,
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
		logger:     logging.NewNop(),
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// edge is the state an upstream node presents to one of its downstream nodes.
type edge int

const (
	edgeSuccess edge = iota
	edgeSkipped
	edgeFailed
)

type result struct {
	id       domain.TaskID
	output   any
	err      error
	attempts int
	started  time.Time
	finished time.Time
}

// run holds the coordinator's bookkeeping for one execution.
type run struct {
	ctx      context.Context
	graph    *dag.Graph
	report   *Report
	rc       *dag.RunContext
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	pending  map[domain.TaskID]int
	selected map[domain.TaskID]map[domain.TaskID]bool
	ready    chan *dag.Node
	done     int
}

// Run executes the graph and returns its report. The graph is validated first.
// The returned error wraps the first task failure; the report is returned in every case
// except an invalid graph.
func (r *Runner) Run(ctx context.Context, g *dag.Graph) (*Report, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	runID := r.newRunID()
	logger := r.logger.With("run_id", runID)
	rep := &Report{
		RunID:   runID,
		Status:  StatusSuccess,
		Tasks:   make(map[domain.TaskID]*TaskReport, g.Len()),
		Started: time.Now(),
	}
	for _, id := range g.IDs() {
		rep.Tasks[id] = &TaskReport{State: StatePending}
	}

	st := &run{
		ctx:      ctx,
		graph:    g,
		report:   rep,
		rc:       dag.NewRunContext(runID),
		logger:   logger,
		hooks:    r.hooks,
		pending:  make(map[domain.TaskID]int, g.Len()),
		selected: make(map[domain.TaskID]map[domain.TaskID]bool),
		ready:    make(chan *dag.Node, g.Len()),
	}
	for _, id := range g.IDs() {
		st.pending[id] = len(g.Upstream(id))
	}

	results := make(chan result, g.Len())
	var wg sync.WaitGroup
	logger.Debug("Starting worker pool.", "workers", r.workers, "tasks", g.Len())
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for node := range st.ready {
				results <- r.execute(ctx, st.rc, node, logger.With("worker", workerID, "task", node.ID))
			}
		}(i)
	}

	for _, id := range g.Roots() {
		st.dispatch(id)
	}
	for st.done < g.Len() {
		st.finish(<-results)
	}
	close(st.ready)
	wg.Wait()

	rep.Finished = time.Now()

	var failed []string
	var rootCause error
	for _, id := range g.TopologicalOrder() {
		t := rep.Tasks[id]
		if t.State == StateFailed {
			failed = append(failed, string(id))
			if rootCause == nil {
				rootCause = t.Err
			}
		}
	}
	if rootCause != nil {
		rep.Status = StatusFailed
		logger.Error("Run failed.", "tasks", strings.Join(failed, ", "), "error", rootCause)
		return rep, fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}
	logger.Info("Run finished.", "decision", rep.Decision, "duration", rep.Duration())
	return rep, nil
}

// dispatch marks a node running and hands it to the pool.
func (st *run) dispatch(id domain.TaskID) {
	node, _ := st.graph.Node(id)
	st.report.Tasks[id].State = StateRunning
	st.ready <- node
}

// finish records a worker result and propagates it downstream.
func (st *run) finish(res result) {
	t := st.report.Tasks[res.id]
	t.Attempts = res.attempts
	t.Started = res.started
	t.Finished = res.finished
	t.Output = res.output

	node, _ := st.graph.Node(res.id)
	if res.err == nil && node.Kind == dag.KindBranch {
		sel, ok := res.output.(dag.Selection)
		if !ok {
			res.err = fmt.Errorf("%w: %s returned %T", ErrInvalidSelection, res.id, res.output)
		} else {
			chosen := make(map[domain.TaskID]bool)
			for _, id := range sel.Tasks() {
				chosen[id] = true
			}
			st.selected[res.id] = chosen
			st.report.Decision = sel.String()
		}
	}

	if res.err != nil {
		t.State = StateFailed
		t.Err = res.err
		t.Error = res.err.Error()
	} else {
		t.State = StateSuccess
		st.rc.SetOutput(res.id, res.output)
	}
	st.settle(res.id)
}

// settle counts a terminal node and resolves the downstream nodes waiting on it.
func (st *run) settle(id domain.TaskID) {
	st.done++
	st.report.Order = append(st.report.Order, id)

	for _, down := range st.graph.Downstream(id) {
		st.pending[down]--
		if st.pending[down] > 0 {
			continue
		}
		switch state := st.evaluate(down); state {
		case StateRunning:
			st.dispatch(down)
		default:
			st.resolve(down, state)
		}
	}
}

// resolve finalises a node that will not run.
func (st *run) resolve(id domain.TaskID, state State) {
	st.report.Tasks[id].State = state
	if state == StateUpstreamFailed {
		st.logger.Warn("Skipping task due to upstream failure.", "task", id)
	} else {
		st.logger.Info("Skipping task.", "task", id)
	}
	if st.hooks.OnTaskFinish != nil {
		st.hooks.OnTaskFinish(st.ctx, &domain.TaskEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTaskFinish, RunID: st.rc.RunID},
			TaskID:    id,
			Status:    string(state),
		})
	}
	st.settle(id)
}

// edgeState is the state upstream presents to down.
func (st *run) edgeState(upstream, down domain.TaskID) edge {
	switch st.report.Tasks[upstream].State {
	case StateSuccess:
		if chosen, isBranch := st.selected[upstream]; isBranch && !chosen[down] {
			return edgeSkipped
		}
		return edgeSuccess
	case StateSkipped:
		return edgeSkipped
	default:
		return edgeFailed
	}
}

// evaluate applies the trigger rule of a node whose upstream nodes are all terminal.
// StateRunning means the node should run.
func (st *run) evaluate(id domain.TaskID) State {
	node, _ := st.graph.Node(id)
	var success, skipped, failed int
	for _, up := range node.Upstream {
		switch st.edgeState(up, id) {
		case edgeSuccess:
			success++
		case edgeSkipped:
			skipped++
		case edgeFailed:
			failed++
		}
	}

	if failed > 0 {
		return StateUpstreamFailed
	}
	switch node.Trigger {
	case dag.NoneFailedMinOneSuccess:
		if success > 0 {
			return StateRunning
		}
		return StateSkipped
	default:
		if skipped > 0 {
			return StateSkipped
		}
		return StateRunning
	}
}

// execute runs a node with its retry policy. It is called from worker goroutines.
func (r *Runner) execute(ctx context.Context, rc *dag.RunContext, node *dag.Node, logger *slog.Logger) result {
	retries, delay := r.retries, r.retryDelay
	switch {
	case node.Retries == dag.NoRetries:
		retries = 0
	case node.Retries > 0:
		retries, delay = node.Retries, node.RetryDelay
	}

	res := result{id: node.ID, started: time.Now()}
	for attempt := 1; attempt <= retries+1; attempt++ {
		res.attempts = attempt
		if err := ctx.Err(); err != nil {
			res.err = err
			break
		}

		r.emitStart(ctx, rc.RunID, node.ID, attempt)
		begin := time.Now()
		logger.Debug("Executing task.", "attempt", attempt)
		res.output, res.err = invoke(ctx, rc, node)
		r.emitFinish(ctx, rc.RunID, node.ID, attempt, time.Since(begin), res.err)

		if res.err == nil {
			if node.Kind == dag.KindBranch {
				r.emitBranch(ctx, rc.RunID, node.ID, res.output)
			}
			break
		}
		if attempt > retries {
			logger.Error("Task failed.", "attempt", attempt, "error", res.err)
			break
		}
		logger.Warn("Task failed, retrying.", "attempt", attempt, "delay", delay, "error", res.err)
		if err := wait(ctx, delay); err != nil {
			res.err = err
			break
		}
	}
	res.finished = time.Now()
	return res
}

// invoke calls the node action, turning a panic into an error.
func invoke(ctx context.Context, rc *dag.RunContext, node *dag.Node) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("task %s panicked: %v", node.ID, p)
		}
	}()
	return node.Action(ctx, rc)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) emitStart(ctx context.Context, runID string, id domain.TaskID, attempt int) {
	if r.hooks.OnTaskStart == nil {
		return
	}
	r.hooks.OnTaskStart(ctx, &domain.TaskEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTaskStart, RunID: runID},
		TaskID:    id,
		Attempt:   attempt,
	})
}

func (r *Runner) emitFinish(ctx context.Context, runID string, id domain.TaskID, attempt int, d time.Duration, err error) {
	if r.hooks.OnTaskFinish == nil {
		return
	}
	status := string(StateSuccess)
	if err != nil {
		status = string(StateFailed)
	}
	r.hooks.OnTaskFinish(ctx, &domain.TaskEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTaskFinish, RunID: runID},
		TaskID:    id,
		Attempt:   attempt,
		Status:    status,
		Duration:  d,
		Err:       err,
	})
}

func (r *Runner) emitBranch(ctx context.Context, runID string, id domain.TaskID, out any) {
	sel, ok := out.(dag.Selection)
	if !ok || r.hooks.OnBranch == nil {
		return
	}
	r.hooks.OnBranch(ctx, &domain.BranchEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBranch, RunID: runID},
		TaskID:    id,
		Decision:  sel.String(),
		Selected:  sel.Tasks(),
	})
}
