package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/easybake/internal/logging"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed ledger lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// DefaultWashDelay is the time spent washing one cookware item.
const DefaultWashDelay = 10 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates ledger access, ensuring that only one operation
// reads and rewrites a given ledger at a time.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.LedgerStore

	mu    sync.Mutex                          // Global lock for the map
	locks map[domain.ResourceClass]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger

	washDelay time.Duration
	sleep     func(time.Duration)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithWashDelay sets the simulated time spent washing each cookware item.
func WithWashDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.washDelay = d
	}
}

// WithSleeper replaces time.Sleep for simulated delays.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(m *Manager) {
		m.sleep = sleep
	}
}

// NewManager creates a new inventory Manager over the given store.
func NewManager(store ports.LedgerStore, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		locks:     make(map[domain.ResourceClass]*lockEntry),
		lockTTL:   DefaultLockTTL,
		logger:    logging.NewNop(),
		washDelay: DefaultWashDelay,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying ledger store.
func (m *Manager) Store() ports.LedgerStore {
	return m.store
}

// acquireEntry gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call releaseEntry(class) after unlocking.
func (m *Manager) acquireEntry(class domain.ResourceClass) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[class]
	if !exists {
		entry = &lockEntry{}
		m.locks[class] = entry
	}
	entry.refs++
	return entry
}

// releaseEntry decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) releaseEntry(class domain.ResourceClass) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[class]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, class)
	}
}

// WithLock executes fn while holding the lock for the resource class.
func (m *Manager) WithLock(ctx context.Context, class domain.ResourceClass, fn func(context.Context) error) error {
	if err := class.Validate(); err != nil {
		return err
	}

	entry := m.acquireEntry(class)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.releaseEntry(class)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, string(class), m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock for %s: %w", class, err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"class", class,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// update runs a read-modify-write cycle on one ledger under its lock.
// mutate returns whether the modified ledger should be saved.
func (m *Manager) update(ctx context.Context, class domain.ResourceClass, mutate func(domain.Ledger) (bool, error)) error {
	return m.WithLock(ctx, class, func(ctx context.Context) error {
		ledger, err := m.store.Load(ctx, class)
		if err != nil {
			return err
		}
		save, err := mutate(ledger)
		if err != nil || !save {
			return err
		}
		return m.store.Save(ctx, class, ledger)
	})
}

// Snapshot returns the current ledger for a class under its lock.
func (m *Manager) Snapshot(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	var ledger domain.Ledger
	err := m.WithLock(ctx, class, func(ctx context.Context) error {
		var err error
		ledger, err = m.store.Load(ctx, class)
		return err
	})
	return ledger, err
}

// Set replaces a whole ledger, e.g. when seeding a fresh kitchen.
func (m *Manager) Set(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	return m.WithLock(ctx, class, func(ctx context.Context) error {
		return m.store.Save(ctx, class, ledger.Clone())
	})
}
