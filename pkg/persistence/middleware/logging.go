package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.LedgerStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every ledger read and write at debug level and failures at warn.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.LedgerStore) ports.LedgerStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error) {
	start := time.Now()
	ledger, err := m.next.Load(ctx, class)
	if err != nil {
		m.logger.Warn("Ledger load failed.", "class", class, "error", err)
		return nil, err
	}
	m.logger.Debug("Ledger loaded.", "class", class, "items", len(ledger), "duration", time.Since(start))
	return ledger, nil
}

func (m *loggingMiddleware) Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error {
	start := time.Now()
	if err := m.next.Save(ctx, class, ledger); err != nil {
		m.logger.Warn("Ledger save failed.", "class", class, "error", err)
		return err
	}
	m.logger.Debug("Ledger saved.", "class", class, "items", len(ledger), "duration", time.Since(start))
	return nil
}
