package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/storage"
	pgstore "solana-trust-scan/internal/storage/postgres"
)

func TestMetadataCacheStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	meta := &domain.TokenMetadata{
		Mint:      "CacheMint1",
		Name:      "Foo Token",
		Symbol:    "FOO",
		LogoURI:   "https://img.example/foo.png",
		Website:   "https://foo.example",
		Source:    "jupiter",
		FetchedAt: 1700000000000,
	}

	err := store.Put(ctx, meta)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, "CacheMint1")
	require.NoError(t, err)

	assert.Equal(t, meta.Mint, retrieved.Mint)
	assert.Equal(t, meta.Name, retrieved.Name)
	assert.Equal(t, meta.Symbol, retrieved.Symbol)
	assert.Equal(t, meta.LogoURI, retrieved.LogoURI)
	assert.Equal(t, meta.Website, retrieved.Website)
	assert.Equal(t, meta.Source, retrieved.Source)
	assert.Equal(t, meta.FetchedAt, retrieved.FetchedAt)
}

func TestMetadataCacheStore_PutUpserts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	first := &domain.TokenMetadata{
		Mint:      "UpsertMint",
		Name:      "Old Name",
		Source:    "jupiter",
		FetchedAt: 1000,
	}
	second := &domain.TokenMetadata{
		Mint:      "UpsertMint",
		Name:      "New Name",
		Source:    "dexscreener",
		FetchedAt: 2000,
	}

	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	retrieved, err := store.Get(ctx, "UpsertMint")
	require.NoError(t, err)

	assert.Equal(t, "New Name", retrieved.Name)
	assert.Equal(t, "dexscreener", retrieved.Source)
	assert.Equal(t, int64(2000), retrieved.FetchedAt)
}

func TestMetadataCacheStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	_, err := store.Get(ctx, "nonexistent-mint")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMetadataCacheStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMetadataCacheStore(pool)

	err := store.Put(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Put(ctx, &domain.TokenMetadata{Mint: ""})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
