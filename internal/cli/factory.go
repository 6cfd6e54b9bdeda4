package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/easybake"
	"github.com/aretw0/easybake/internal/config"
	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/pkg/adapters/file"
	"github.com/aretw0/easybake/pkg/adapters/memory"
	"github.com/aretw0/easybake/pkg/adapters/redis"
	"github.com/aretw0/easybake/pkg/adapters/sqlite"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/persistence/middleware"
	"github.com/aretw0/easybake/pkg/ports"
	"github.com/aretw0/easybake/pkg/runner"
)

// Backend is an opened ledger store with its optional lock and cleanup.
type Backend struct {
	Store  ports.LedgerStore
	Locker ports.DistributedLocker
	Close  func() error
}

// OpenStore opens the store selected by the configuration.
func OpenStore(cfg config.Config) (*Backend, error) {
	nop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return &Backend{Store: memory.NewStore(), Close: nop}, nil

	case config.DriverFile:
		return &Backend{Store: file.New(cfg.Store.DataDir), Close: nop}, nil

	case config.DriverSQLite:
		path := cfg.SQLitePath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Close: store.Close}, nil

	case config.DriverRedis:
		rc := cfg.Store.Redis
		var opts []redis.Option
		if rc.Prefix != "" {
			opts = append(opts, redis.WithPrefix(rc.Prefix))
		}
		if rc.TTL > 0 {
			opts = append(opts, redis.WithTTL(rc.TTL))
		}
		store := redis.New(rc.Addr, rc.Password, rc.DB, opts...)
		b := &Backend{Store: store, Close: store.Close}
		if rc.Lock {
			prefix := rc.Prefix
			if prefix == "" {
				prefix = redis.DefaultPrefix
			}
			b.Locker = redis.NewLocker(store.Client(), prefix)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.Store.Driver)
}

// NewKitchen builds a Kitchen from the configuration. The returned function closes the store.
// The store is always wrapped with ledger logging; mws are applied inside it.
func NewKitchen(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks, mws ...middleware.Middleware) (*easybake.Kitchen, func() error, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	backend, err := OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []easybake.Option{
		easybake.WithRecipe(cfg.Recipe),
		easybake.WithStore(middleware.Chain(backend.Store, append([]middleware.Middleware{middleware.NewLoggingMiddleware(logger)}, mws...)...)),
		easybake.WithDelays(cfg.Kitchen.Delays),
		easybake.WithWashDelay(cfg.Kitchen.WashDelay),
		easybake.WithStrictBake(cfg.Kitchen.StrictBake),
		easybake.WithLogger(logger),
		easybake.WithLifecycleHooks(domain.ChainHooks(createDebugHooks(logger), hooks)),
		easybake.WithRunnerOptions(
			runner.WithWorkers(cfg.Runner.Workers),
			runner.WithRetries(cfg.Runner.Retries),
			runner.WithRetryDelay(cfg.Runner.RetryDelay),
		),
	}
	if backend.Locker != nil {
		opts = append(opts, easybake.WithLocker(backend.Locker))
	}

	k, err := easybake.New(opts...)
	if err != nil {
		return nil, nil, errors.Join(err, backend.Close())
	}
	return k, backend.Close, nil
}

// createDebugHooks logs every task attempt and branch decision at debug level.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTaskStart: func(ctx context.Context, e *domain.TaskEvent) {
			logger.Debug("Task Start", "task", e.TaskID, "attempt", e.Attempt, "run_id", e.RunID)
		},
		OnTaskFinish: func(ctx context.Context, e *domain.TaskEvent) {
			if e.Err != nil {
				logger.Debug("Task Finish (Error)", "task", e.TaskID, "attempt", e.Attempt, "err", e.Err)
				return
			}
			logger.Debug("Task Finish", "task", e.TaskID, "status", e.Status, "duration", e.Duration)
		},
		OnBranch: func(ctx context.Context, e *domain.BranchEvent) {
			logger.Debug("Branch", "decision", e.Decision, "selected", e.Selected)
		},
	}
}
