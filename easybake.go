package easybake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/pkg/adapters/memory"
	"github.com/aretw0/easybake/pkg/bakery"
	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/inventory"
	"github.com/aretw0/easybake/pkg/kitchen"
	"github.com/aretw0/easybake/pkg/ports"
	"github.com/aretw0/easybake/pkg/runner"
)

// Version is the release version. It is overridden at build time via -ldflags.
var Version = "dev"

// Kitchen is the high-level entry point for the easybake library.
// It binds a recipe, a ledger store and a process-step configuration into a runnable graph.
type Kitchen struct {
	recipe     domain.Recipe
	store      ports.LedgerStore
	locker     ports.DistributedLocker
	delays     kitchen.Delays
	washDelay  time.Duration
	strict     bool
	sleep      func(time.Duration)
	runnerOpts []runner.Option
	hooks      domain.LifecycleHooks
	logger     *slog.Logger

	inventory *inventory.Manager
	bakery    *bakery.Bakery
	runner    *runner.Runner
	graph     *dag.Graph
}

// Option defines a functional option for configuring the Kitchen.
type Option func(*Kitchen)

// WithRecipe replaces the default recipe.
func WithRecipe(recipe domain.Recipe) Option {
	return func(k *Kitchen) {
		k.recipe = recipe
	}
}

// WithStore sets the ledger store. The default is an empty in-memory store.
func WithStore(store ports.LedgerStore) Option {
	return func(k *Kitchen) {
		k.store = store
	}
}

// WithLocker adds a distributed lock around every ledger update.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(k *Kitchen) {
		k.locker = locker
	}
}

// WithDelays sets the process step durations.
func WithDelays(d kitchen.Delays) Option {
	return func(k *Kitchen) {
		k.delays = d
	}
}

// WithWashDelay sets the time spent washing each cookware item.
func WithWashDelay(d time.Duration) Option {
	return func(k *Kitchen) {
		k.washDelay = d
	}
}

// WithStrictBake makes baking at the wrong temperature fail the task.
func WithStrictBake(strict bool) Option {
	return func(k *Kitchen) {
		k.strict = strict
	}
}

// WithSleeper replaces time.Sleep for every simulated delay.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(k *Kitchen) {
		k.sleep = sleep
	}
}

// WithRunnerOptions passes options to the underlying runner.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(k *Kitchen) {
		k.runnerOpts = append(k.runnerOpts, opts...)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(k *Kitchen) {
		k.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Kitchen) {
		k.logger = logger
	}
}

// New initializes a Kitchen and builds its task graph.
func New(opts ...Option) (*Kitchen, error) {
	k := &Kitchen{
		recipe:    domain.DefaultRecipe(),
		delays:    kitchen.DefaultDelays(),
		washDelay: inventory.DefaultWashDelay,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(k)
	}

	if k.logger == nil {
		k.logger = logging.NewNop()
	}
	if k.store == nil {
		k.store = memory.NewStore()
	}

	invOpts := []inventory.Option{
		inventory.WithLogger(k.logger),
		inventory.WithWashDelay(k.washDelay),
		inventory.WithSleeper(k.sleep),
	}
	if k.locker != nil {
		invOpts = append(invOpts, inventory.WithLocker(k.locker))
	}
	k.inventory = inventory.NewManager(k.store, invOpts...)

	steps := kitchen.New(
		kitchen.WithDelays(k.delays),
		kitchen.WithStrictBake(k.strict),
		kitchen.WithSleeper(k.sleep),
		kitchen.WithLogger(k.logger),
	)

	var err error
	k.bakery, err = bakery.New(k.recipe, k.inventory, steps, bakery.WithLogger(k.logger))
	if err != nil {
		return nil, err
	}
	if k.graph, err = k.bakery.Graph(); err != nil {
		return nil, err
	}

	runnerOpts := append([]runner.Option{
		runner.WithLogger(k.logger),
		runner.WithLifecycleHooks(k.hooks),
	}, k.runnerOpts...)
	k.runner = runner.New(runnerOpts...)

	return k, nil
}

// Bake executes one run of the graph.
// The report is returned even when the run fails.
func (k *Kitchen) Bake(ctx context.Context) (*runner.Report, error) {
	return k.runner.Run(ctx, k.graph)
}

// Inspect returns the task graph for visualization or introspection tools.
func (k *Kitchen) Inspect() *dag.Graph {
	return k.graph
}

// Recipe returns the recipe in use.
func (k *Kitchen) Recipe() domain.Recipe {
	return k.recipe
}

// Inventory returns the ledger manager.
func (k *Kitchen) Inventory() *inventory.Manager {
	return k.inventory
}

// Ledger returns a snapshot of one ledger.
func (k *Kitchen) Ledger(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	return k.inventory.Snapshot(ctx, class)
}

// Stock returns a snapshot of both ledgers.
func (k *Kitchen) Stock(ctx context.Context) (map[domain.ResourceClass]domain.Ledger, error) {
	out := make(map[domain.ResourceClass]domain.Ledger, len(domain.ResourceClasses))
	for _, class := range domain.ResourceClasses {
		ledger, err := k.Ledger(ctx, class)
		if err != nil {
			return nil, err
		}
		out[class] = ledger
	}
	return out, nil
}

// Seed overwrites both ledgers with enough stock for the given number of cakes.
func (k *Kitchen) Seed(ctx context.Context, batches int) error {
	if batches < 0 {
		return fmt.Errorf("batches must not be negative: %d", batches)
	}
	for _, class := range domain.ResourceClasses {
		req, err := k.recipe.Requirements(class)
		if err != nil {
			return err
		}
		for item := range req {
			req[item] *= batches
		}
		if err := k.inventory.Set(ctx, class, req); err != nil {
			return fmt.Errorf("failed to seed %s: %w", class, err)
		}
	}
	return nil
}
