package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShop(t *testing.T) {
	m, store := newManager(t, domain.Ledger{"eggs": 1, "flour": 5, "sugar": 0}, domain.Ledger{})

	err := m.Shop(context.Background(), domain.Ledger{"eggs": 2, "flour": 2, "sugar": 1, "butter": 1})
	require.NoError(t, err)

	assert.Equal(t, domain.Ledger{
		"eggs":   3, // deficient: required amount added on top
		"flour":  5, // sufficient: untouched
		"sugar":  1,
		"butter": 1, // missing: bought in the required amount
	}, load(t, store, domain.Ingredients))
}

func TestShop_NeverDecreases(t *testing.T) {
	required := domain.DefaultRecipe().Ingredients
	before := domain.Ledger{"eggs": 0, "flour": 7, "water": 1, "vanilla": 3}
	m, store := newManager(t, before, domain.Ledger{})

	require.NoError(t, m.Shop(context.Background(), required))
	after := load(t, store, domain.Ingredients)

	for item, qty := range before {
		assert.GreaterOrEqual(t, after[item], qty, item)
	}
	for item, qty := range required {
		if before[item] < qty {
			assert.GreaterOrEqual(t, after[item], qty, item)
		} else {
			assert.Equal(t, before[item], after[item], item)
		}
	}
}

func TestShop_ThenAcquireSucceeds(t *testing.T) {
	m, _ := newManager(t, domain.Ledger{"eggs": 1}, domain.Ledger{})
	ctx := context.Background()
	required := domain.DefaultRecipe().Ingredients

	ok, err := m.Acquire(ctx, domain.Ingredients, required)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Shop(ctx, required))

	ok, err = m.Acquire(ctx, domain.Ingredients, required)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWash_AddsOneUnitPerItem(t *testing.T) {
	var slept []time.Duration
	m, store := newManager(t, domain.Ledger{}, domain.Ledger{"pan": 0, "mixer": 3},
		inventory.WithWashDelay(10*time.Second),
		inventory.WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)

	err := m.Wash(context.Background(), domain.Ledger{"pan": 2, "mixer": 1, "spoon": 1})
	require.NoError(t, err)

	assert.Equal(t, domain.Ledger{"pan": 1, "mixer": 4, "spoon": 1}, load(t, store, domain.Cookware))
	assert.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second, 10 * time.Second}, slept)
}
