package inventory

import (
	"context"
	"fmt"

	"github.com/aretw0/easybake/pkg/domain"
)

// Shop tops up the ingredient ledger.
// Missing items are bought in the required amount; deficient items get the
// required amount added on top of what is left; sufficient items are untouched.
// The ledger is saved even when nothing was bought.
func (m *Manager) Shop(ctx context.Context, required domain.Ledger) error {
	err := m.update(ctx, domain.Ingredients, func(pantry domain.Ledger) (bool, error) {
		for _, item := range required.Items() {
			qty := required[item]
			onHand, ok := pantry[item]
			switch {
			case !ok:
				pantry[item] = qty
				m.logger.Info("Purchased new ingredient", "item", item, "quantity", qty)
			case onHand < qty:
				pantry[item] = onHand + qty
				m.logger.Info("Purchased ingredient", "item", item, "quantity", qty)
			}
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("shop: %w", err)
	}
	return nil
}

// Wash cleans one unit of every required cookware item, whatever the required count.
// Each item takes the configured wash delay. The cabinets are only locked once the
// washing is done, so other cookware tasks are not blocked by the delay.
func (m *Manager) Wash(ctx context.Context, required domain.Ledger) error {
	items := required.Items()
	for _, item := range items {
		m.logger.Info(fmt.Sprintf("Wash the %s... Wash the %s...", item, item))
		m.sleep(m.washDelay)
	}

	err := m.update(ctx, domain.Cookware, func(cabinets domain.Ledger) (bool, error) {
		for _, item := range items {
			cabinets[item]++
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("wash: %w", err)
	}
	return nil
}
