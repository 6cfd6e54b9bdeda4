package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/easybake/pkg/adapters/memory"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/persistence/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Hooks(t *testing.T) {
	c := New()
	h := c.Hooks()
	ctx := context.Background()

	h.OnTaskFinish(ctx, &domain.TaskEvent{TaskID: "bake_cake", Attempt: 1, Status: "failed", Duration: time.Second})
	h.OnTaskFinish(ctx, &domain.TaskEvent{TaskID: "bake_cake", Attempt: 2, Status: "success", Duration: time.Second})
	h.OnTaskFinish(ctx, &domain.TaskEvent{TaskID: "go_shopping", Status: "skipped"})
	h.OnBranch(ctx, &domain.BranchEvent{Decision: "bake"})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.taskAttempts.WithLabelValues("bake_cake", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.taskAttempts.WithLabelValues("bake_cake", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.taskSkipped.WithLabelValues("go_shopping", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.decisions.WithLabelValues("bake")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.taskDuration))
}

func TestCollector_RunAndLedger(t *testing.T) {
	c := New()
	c.ObserveRun("success", 2*time.Second)
	c.ObserveLedger(domain.Cookware, domain.Ledger{"pan": 3, "spoon": 0})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.stock.WithLabelValues("cookware", "pan")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.stock.WithLabelValues("cookware", "spoon")))
}

func TestCollector_StoreMiddleware(t *testing.T) {
	c := New()
	store := middleware.Chain(memory.NewStore(), c.StoreMiddleware())
	ctx := context.Background()

	_, err := store.Load(ctx, domain.Ingredients)
	require.Error(t, err)
	require.NoError(t, store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 6}))

	assert.Equal(t, 2, testutil.CollectAndCount(c.storeOps))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.stock.WithLabelValues("ingredients", "eggs")))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.ObserveRun("failed", time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `easybake_runs_total{status="failed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
