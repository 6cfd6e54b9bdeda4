package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/easybake/pkg/adapters/redis"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	ports.RunLedgerStoreContract(t, func(t *testing.T) ports.LedgerStore {
		_, client := newClient(t)
		return redis.NewFromClient(client)
	})
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, domain.Cookware, domain.Ledger{"pan": 1})
	require.NoError(t, err)

	// Key should be "custom:app:cookware"
	assert.True(t, mr.Exists("custom:app:cookware"), "Expected key with custom prefix to exist")
	got, err := mr.Get("custom:app:cookware")
	require.NoError(t, err)
	assert.JSONEq(t, `{"pan": 1}`, got)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 2}))

	mr.FastForward(2 * time.Second)

	_, err := store.Load(ctx, domain.Ingredients)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestRedisStore_Malformed(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"ingredients", "not-json"))

	_, err := store.Load(context.Background(), domain.Ingredients)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.Load(ctx, domain.Ingredients)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	err = store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 1})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
