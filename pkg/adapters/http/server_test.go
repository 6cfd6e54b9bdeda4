package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/easybake/internal/metrics"
	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/dsl"
	"github.com/aretw0/easybake/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockKitchen for testing
type MockKitchen struct {
	BakeFunc func(ctx context.Context) (*runner.Report, error)
	Ledgers  map[domain.ResourceClass]domain.Ledger
	Graph    *dag.Graph
}

func (m *MockKitchen) Bake(ctx context.Context) (*runner.Report, error) {
	return m.BakeFunc(ctx)
}

func (m *MockKitchen) Inspect() *dag.Graph { return m.Graph }

func (m *MockKitchen) Ledger(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	l, ok := m.Ledgers[class]
	if !ok {
		return nil, domain.ErrStorageUnavailable
	}
	return l, nil
}

func newMock(t *testing.T) *MockKitchen {
	t.Helper()
	b := dsl.New()
	noop := func(ctx context.Context, rc *dag.RunContext) (any, error) { return nil, nil }
	b.Add("a").Do(noop).Describe("first")
	b.Add("b").Do(noop).After("a").Trigger(dag.NoneFailedMinOneSuccess)
	g, err := b.Build()
	require.NoError(t, err)

	return &MockKitchen{
		Graph: g,
		Ledgers: map[domain.ResourceClass]domain.Ledger{
			domain.Ingredients: {"eggs": 2},
			domain.Cookware:    {"pan": 1},
		},
		BakeFunc: func(ctx context.Context) (*runner.Report, error) {
			now := time.Now()
			return &runner.Report{
				RunID:    "run-1",
				Status:   runner.StatusSuccess,
				Decision: "bake",
				Tasks:    map[domain.TaskID]*runner.TaskReport{"a": {State: runner.StateSuccess, Attempts: 1}},
				Order:    []domain.TaskID{"a"},
				Started:  now,
				Finished: now,
			}, nil
		},
	}
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := do(NewHandler(newMock(t)), "GET", "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetLedger(t *testing.T) {
	h := NewHandler(newMock(t))

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/inventory/ingredients", http.StatusOK, `{"eggs":2}`},
		{"/inventory/pantry", http.StatusOK, `{"eggs":2}`},
		{"/inventory/cabinets", http.StatusOK, `{"pan":1}`},
		{"/inventory/garage", http.StatusNotFound, ""},
		{"/inventory", http.StatusOK, `{"ingredients":{"eggs":2},"cookware":{"pan":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(h, "GET", tt.path)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestGetLedger_StorageUnavailable(t *testing.T) {
	m := newMock(t)
	delete(m.Ledgers, domain.Cookware)

	w := do(NewHandler(m), "GET", "/inventory/cookware")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "storage unavailable")
}

func TestCreateRun(t *testing.T) {
	c := metrics.New()
	h := NewHandler(newMock(t), WithMetrics(c))

	w := do(h, "POST", "/runs")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp["run_id"])
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "bake", resp["decision"])
	assert.NotContains(t, resp, "error")

	m := do(h, "GET", "/metrics")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `easybake_runs_total{status="success"} 1`)
}

func TestCreateRun_Failed(t *testing.T) {
	m := newMock(t)
	m.BakeFunc = func(ctx context.Context) (*runner.Report, error) {
		return &runner.Report{RunID: "run-2", Status: runner.StatusFailed}, domain.ErrStorageUnavailable
	}

	w := do(NewHandler(m), "POST", "/runs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)
	assert.Contains(t, w.Body.String(), `"error":"storage unavailable"`)
}

func TestCreateRun_SurvivesClientDisconnect(t *testing.T) {
	mock := newMock(t)
	bake := mock.BakeFunc
	started := make(chan struct{})
	mock.BakeFunc = func(ctx context.Context) (*runner.Report, error) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return bake(ctx)
	}

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/runs", nil).WithContext(ctx)
	go func() {
		<-started
		cancel()
	}()

	rec := httptest.NewRecorder()
	NewHandler(mock).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	assert.Empty(t, resp.Error)
}

func TestCreateRun_NoReport(t *testing.T) {
	m := newMock(t)
	m.BakeFunc = func(ctx context.Context) (*runner.Report, error) { return nil, dag.ErrCycle }

	w := do(NewHandler(m), "POST", "/runs")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetGraph(t *testing.T) {
	h := NewHandler(newMock(t))

	w := do(h, "GET", "/graph")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nodes":[
		{"id":"a","kind":"task","description":"first","trigger":"all_success"},
		{"id":"b","kind":"task","upstream":["a"],"trigger":"none_failed_min_one_success"}
	]}`, w.Body.String())

	w = do(h, "GET", "/graph?format=mermaid")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD\n"))
	assert.Contains(t, w.Body.String(), "a -.-> b")
}

func TestMetricsDisabled(t *testing.T) {
	w := do(NewHandler(newMock(t)), "GET", "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
