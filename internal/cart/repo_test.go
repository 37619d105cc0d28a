package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvai/freshmart-backend/pkg/localstore"
)

func newMemoryRepo(t *testing.T) (Repository, localstore.Store) {
	t.Helper()
	store := localstore.NewMemory()
	repo, err := NewRepository(store, testLogger())
	require.NoError(t, err)
	return repo, store
}

func TestRepositoryRoundTripPreservesOrderAndQuantities(t *testing.T) {
	t.Parallel()

	repo, _ := newMemoryRepo(t)
	ctx := context.Background()

	saved := []Line{
		{ProductID: 13, Name: "Whole Milk", Price: decimal.RequireFromString("3.49"), Icon: "🥛", Quantity: 2},
		{ProductID: 2, Name: "Bananas", Price: decimal.RequireFromString("2.49"), Icon: "🍌", Quantity: 1},
		{ProductID: 7, Name: "Fresh Carrots", Price: decimal.RequireFromString("2.99"), Icon: "🥕", Quantity: 4},
	}
	require.NoError(t, repo.Save(ctx, "s1", saved))

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, loaded, 3)
	for i := range saved {
		assert.Equal(t, saved[i].ProductID, loaded[i].ProductID)
		assert.Equal(t, saved[i].Name, loaded[i].Name)
		assert.Equal(t, saved[i].Quantity, loaded[i].Quantity)
		assert.True(t, saved[i].Price.Equal(loaded[i].Price))
	}
}

func TestRepositoryMissingBlobLoadsEmpty(t *testing.T) {
	t.Parallel()

	repo, _ := newMemoryRepo(t)

	lines, err := repo.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRepositoryCorruptBlobResetsToEmpty(t *testing.T) {
	t.Parallel()

	repo, store := newMemoryRepo(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, storageKey("s1"), "{not json"))

	lines, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRepositorySessionsUseSeparateKeys(t *testing.T) {
	t.Parallel()

	repo, _ := newMemoryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s1", []Line{{ProductID: 1, Quantity: 1}}))
	require.NoError(t, repo.Save(ctx, "s2", nil))

	first, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	second, err := repo.Load(ctx, "s2")
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}
