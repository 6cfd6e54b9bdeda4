package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "easybake:ledger:"

// Store implements ports.LedgerStore using Redis.
// Each ledger is a single JSON string value.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for ledger documents.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for ledger documents.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share the connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(class domain.ResourceClass) string {
	return s.prefix + string(class)
}

// Load retrieves the ledger from Redis.
func (s *Store) Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	if err := class.Validate(); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.key(class)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: no %s ledger at %s", domain.ErrStorageUnavailable, class, s.key(class))
		}
		return nil, fmt.Errorf("%w: failed to get from redis: %v", domain.ErrStorageUnavailable, err)
	}

	var ledger domain.Ledger
	if err := json.Unmarshal([]byte(val), &ledger); err != nil || ledger == nil {
		return nil, fmt.Errorf("%w: malformed %s ledger", domain.ErrStorageUnavailable, class)
	}
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("%w: malformed %s ledger: %v", domain.ErrStorageUnavailable, class, err)
	}

	return ledger, nil
}

// Save persists the ledger to Redis.
func (s *Store) Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	if err := class.Validate(); err != nil {
		return err
	}
	if err := ledger.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s ledger: %w", class, err)
	}
	if ledger == nil {
		ledger = domain.Ledger{}
	}

	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to marshal %s ledger: %w", class, err)
	}

	// Use 0 for no expiration if ttl is not set.
	if err := s.client.Set(ctx, s.key(class), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to save to redis: %v", domain.ErrStorageUnavailable, err)
	}

	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
