package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/easybake/pkg/domain"
)

// Store implements ports.LedgerStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[domain.ResourceClass]domain.Ledger
	mu   sync.RWMutex
}

// Option configures the Store.
type Option func(*Store)

// WithLedger seeds the store with a ledger for the given class.
func WithLedger(class domain.ResourceClass, ledger domain.Ledger) Option {
	return func(s *Store) {
		s.data[class] = ledger.Clone()
	}
}

// NewStore creates a new in-memory store.
// Classes that were not seeded behave like missing documents.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[domain.ResourceClass]domain.Ledger),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load retrieves a copy of the ledger so callers can't mutate the store directly.
func (s *Store) Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	if err := class.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger, ok := s.data[class]
	if !ok {
		return nil, fmt.Errorf("%w: no %s ledger", domain.ErrStorageUnavailable, class)
	}
	return ledger.Clone(), nil
}

// Save replaces the ledger with a copy of the given one.
func (s *Store) Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	if err := class.Validate(); err != nil {
		return err
	}
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s ledger: %w", class, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[class] = ledger.Clone()
	return nil
}
