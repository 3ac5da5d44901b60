// Package storage defines the cache store interfaces. Caching is an
// optimization layer: the engine works correctly without any store and
// store failures are never fatal to an analysis.
package storage

import (
	"context"

	"solana-trust-scan/internal/domain"
)

// MetadataCacheStore caches resolved token metadata by mint.
type MetadataCacheStore interface {
	// Put inserts or replaces the cached metadata for m.Mint.
	Put(ctx context.Context, m *domain.TokenMetadata) error

	// Get retrieves cached metadata by mint. Returns ErrNotFound if
	// the mint has never been cached. Freshness is the caller's call:
	// compare FetchedAt against the configured TTL.
	Get(ctx context.Context, mint string) (*domain.TokenMetadata, error)
}
