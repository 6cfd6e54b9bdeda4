package middleware

import (
	"context"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/ports"
)

// Store operations reported in a StoreEvent.
const (
	OpLoad = "load"
	OpSave = "save"
)

// StoreEvent describes one completed store call.
// Ledger is the document read or written; it is nil when the call failed.
type StoreEvent struct {
	Op       string
	Class    domain.ResourceClass
	Ledger   domain.Ledger
	Duration time.Duration
	Err      error
}

type observerMiddleware struct {
	next    ports.LedgerStore
	observe func(StoreEvent)
}

// NewObserverMiddleware reports every store call to observe after it completes.
// observe runs on the caller's goroutine and must not retain the ledger.
func NewObserverMiddleware(observe func(StoreEvent)) Middleware {
	return func(next ports.LedgerStore) ports.LedgerStore {
		return &observerMiddleware{next: next, observe: observe}
	}
}

func (m *observerMiddleware) Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	start := time.Now()
	ledger, err := m.next.Load(ctx, class)
	e := StoreEvent{Op: OpLoad, Class: class, Duration: time.Since(start), Err: err}
	if err == nil {
		e.Ledger = ledger
	}
	m.observe(e)
	return ledger, err
}

func (m *observerMiddleware) Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	start := time.Now()
	err := m.next.Save(ctx, class, ledger)
	e := StoreEvent{Op: OpSave, Class: class, Duration: time.Since(start), Err: err}
	if err == nil {
		e.Ledger = ledger
	}
	m.observe(e)
	return err
}
