package ports

import (
	"context"
	"testing"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLedgerStoreContract runs a suite of tests to verify that a LedgerStore implementation
// adheres to the defined interface contract.
// newStore must return an empty store on every call.
func RunLedgerStoreContract(t *testing.T, newStore func(t *testing.T) LedgerStore) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		store := newStore(t)
		pantry := domain.Ledger{"eggs": 2, "flour": 0}

		require.NoError(t, store.Save(ctx, domain.Ingredients, pantry), "Save should not return error")

		loaded, err := store.Load(ctx, domain.Ingredients)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, pantry, loaded)
	})

	t.Run("Load Missing Document", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Load(ctx, domain.Cookware)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("Save Replaces Whole Document", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, domain.Cookware, domain.Ledger{"pan": 1, "spoon": 3}))
		require.NoError(t, store.Save(ctx, domain.Cookware, domain.Ledger{"pan": 2}))

		loaded, err := store.Load(ctx, domain.Cookware)
		require.NoError(t, err)
		assert.Equal(t, domain.Ledger{"pan": 2}, loaded, "items absent from the new document must disappear")
	})

	t.Run("Classes Are Independent", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 1}))
		require.NoError(t, store.Save(ctx, domain.Cookware, domain.Ledger{"pan": 1}))

		pantry, err := store.Load(ctx, domain.Ingredients)
		require.NoError(t, err)
		cabinets, err := store.Load(ctx, domain.Cookware)
		require.NoError(t, err)

		assert.Equal(t, domain.Ledger{"eggs": 1}, pantry)
		assert.Equal(t, domain.Ledger{"pan": 1}, cabinets)
	})

	t.Run("Empty Ledger", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, domain.Ingredients, domain.Ledger{}))

		loaded, err := store.Load(ctx, domain.Ingredients)
		require.NoError(t, err)
		assert.Empty(t, loaded)
		assert.NotNil(t, loaded)
	})

	t.Run("Isolation", func(t *testing.T) {
		store := newStore(t)
		saved := domain.Ledger{"eggs": 2}
		require.NoError(t, store.Save(ctx, domain.Ingredients, saved))
		saved["eggs"] = 99

		loaded, err := store.Load(ctx, domain.Ingredients)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded["eggs"], "mutating the saved map must not leak into the store")

		loaded["eggs"] = 42
		again, err := store.Load(ctx, domain.Ingredients)
		require.NoError(t, err)
		assert.Equal(t, 2, again["eggs"], "mutating a loaded map must not leak into the store")
	})

	t.Run("Reject Negative Quantity", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 1}))

		err := store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": -1})
		assert.Error(t, err)

		loaded, err := store.Load(ctx, domain.Ingredients)
		require.NoError(t, err)
		assert.Equal(t, domain.Ledger{"eggs": 1}, loaded, "a rejected save must leave the ledger unchanged")
	})

	t.Run("Unknown Class", func(t *testing.T) {
		store := newStore(t)
		err := store.Save(ctx, "fridge", domain.Ledger{"milk": 1})
		assert.ErrorIs(t, err, domain.ErrUnknownResourceClass)
	})
}
