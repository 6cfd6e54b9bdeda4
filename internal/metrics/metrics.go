// Package metrics exports run, task and ledger metrics to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/persistence/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "easybake"

// Collector owns the easybake metrics and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	taskAttempts *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	taskSkipped  *prometheus.CounterVec
	decisions    *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	stock        *prometheus.GaugeVec
	storeOps     *prometheus.HistogramVec
}

// New creates a Collector on a fresh registry that also carries the Go and process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		taskAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_attempts_total",
			Help:      "Task attempts by outcome.",
		}, []string{"task", "status"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of task attempts.",
			Buckets:   []float64{.01, .1, 1, 5, 10, 30, 60, 120},
		}, []string{"task"}),
		taskSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_not_run_total",
			Help:      "Tasks that did not run, by reason.",
		}, []string{"task", "state"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branch_decisions_total",
			Help:      "Branch decisions taken.",
		}, []string{"decision"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished runs by status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of finished runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		stock: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_quantity",
			Help:      "Last observed quantity of each ledger item.",
		}, []string{"class", "item"}),
		storeOps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Ledger store calls by operation, class and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "class", "status"}),
	}

	c.registry.MustRegister(
		c.taskAttempts, c.taskDuration, c.taskSkipped,
		c.decisions, c.runs, c.runDuration, c.stock, c.storeOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Hooks returns lifecycle hooks feeding the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTaskFinish: func(ctx context.Context, e *domain.TaskEvent) {
			if e.Attempt == 0 {
				c.taskSkipped.WithLabelValues(string(e.TaskID), e.Status).Inc()
				return
			}
			c.taskAttempts.WithLabelValues(string(e.TaskID), e.Status).Inc()
			c.taskDuration.WithLabelValues(string(e.TaskID)).Observe(e.Duration.Seconds())
		},
		OnBranch: func(ctx context.Context, e *domain.BranchEvent) {
			c.decisions.WithLabelValues(e.Decision).Inc()
		},
	}
}

// ObserveRun records a finished run.
func (c *Collector) ObserveRun(status string, d time.Duration) {
	c.runs.WithLabelValues(status).Inc()
	c.runDuration.Observe(d.Seconds())
}

// ObserveLedger records the current quantities of a ledger.
func (c *Collector) ObserveLedger(class domain.ResourceClass, ledger domain.Ledger) {
	for item, qty := range ledger {
		c.stock.WithLabelValues(string(class), item).Set(float64(qty))
	}
}

// ObserveStore records a ledger store call. Successful calls also refresh the quantity gauges.
// It has the signature expected by middleware.NewObserverMiddleware.
func (c *Collector) ObserveStore(e middleware.StoreEvent) {
	status := "success"
	if e.Err != nil {
		status = "error"
	}
	c.storeOps.WithLabelValues(e.Op, string(e.Class), status).Observe(e.Duration.Seconds())
	if e.Err == nil {
		c.ObserveLedger(e.Class, e.Ledger)
	}
}

// StoreMiddleware wraps a ledger store so its calls feed the collector.
func (c *Collector) StoreMiddleware() middleware.Middleware {
	return middleware.NewObserverMiddleware(c.ObserveStore)
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
