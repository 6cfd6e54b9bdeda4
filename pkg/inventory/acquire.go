package inventory

import (
	"context"
	"fmt"

	"github.com/aretw0/easybake/pkg/domain"
)

// Acquire reserves the required quantities from the ledger of the given class.
//
// The check is all-or-nothing: every item is inspected first without touching the
// ledger, and decrements are applied and saved only when every item is available.
// Missing or insufficient stock is the routine failure path and is reported as
// false with a nil error; a non-nil error means the store itself failed.
func (m *Manager) Acquire(ctx context.Context, class domain.ResourceClass, required domain.Ledger) (bool, error) {
	acquired := false
	err := m.update(ctx, class, func(ledger domain.Ledger) (bool, error) {
		for _, item := range required.Items() {
			onHand, ok := ledger[item]
			if !ok {
				m.logger.Warn("Item not found in ledger", "class", class, "item", item)
				return false, nil
			}
			if onHand < required[item] {
				m.logger.Warn("Not enough of item to make the recipe",
					"class", class,
					"item", item,
					"required", required[item],
					"on_hand", onHand,
				)
				return false, nil
			}
		}

		for item, qty := range required {
			ledger[item] -= qty
		}
		acquired = true
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", class, err)
	}

	if acquired {
		m.logger.Info("Acquired items", "class", class, "items", len(required))
	}
	return acquired, nil
}

// Release returns held quantities to the ledger.
// Every released item must already have a ledger entry; otherwise nothing is
// written and the error wraps domain.ErrPreconditionViolated.
func (m *Manager) Release(ctx context.Context, class domain.ResourceClass, held domain.Ledger) error {
	err := m.update(ctx, class, func(ledger domain.Ledger) (bool, error) {
		for _, item := range held.Items() {
			if _, ok := ledger[item]; !ok {
				return false, fmt.Errorf("%w: %s %q was never taken from the ledger", domain.ErrPreconditionViolated, class, item)
			}
		}
		for _, item := range held.Items() {
			ledger[item] += held[item]
			m.logger.Info("Returned item", "class", class, "item", item, "quantity", held[item])
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("release %s: %w", class, err)
	}
	return nil
}
