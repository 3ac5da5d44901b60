// Package metadata resolves token metadata through an ordered waterfall
// of external providers. The first provider returning a named result
// wins; providers are never queried speculatively in parallel because
// each call spends provider quota.
package metadata

import (
	"context"
	"log"
	"time"

	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/observability"
)

// Resolver is one metadata provider capability.
type Resolver interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Resolve fetches metadata for a mint. A nil result with nil error
	// is a miss; any error is treated the same as a miss by the waterfall.
	Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error)
}

// Waterfall tries resolvers in fixed order.
type Waterfall struct {
	resolvers []Resolver
	logger    *log.Logger
}

// NewWaterfall creates a Waterfall over the given resolvers, tried in
// the order supplied.
func NewWaterfall(resolvers []Resolver, logger *log.Logger) *Waterfall {
	if logger == nil {
		logger = log.Default()
	}
	return &Waterfall{resolvers: resolvers, logger: logger}
}

// Resolve returns the first provider hit, or ErrNotFound when every
// provider missed. A hit requires a non-empty name.
func (w *Waterfall) Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	for _, r := range w.resolvers {
		meta, err := r.Resolve(ctx, mint)
		if err != nil {
			w.logger.Printf("metadata provider %s failed for %s: %v", r.Name(), mint, err)
			observability.RecordProviderRequest(r.Name(), "error")
			continue
		}
		if meta == nil || meta.Name == "" {
			observability.RecordProviderRequest(r.Name(), "miss")
			continue
		}

		observability.RecordProviderRequest(r.Name(), "hit")
		meta.Mint = mint
		meta.Source = r.Name()
		meta.FetchedAt = time.Now().UnixMilli()
		return meta, nil
	}

	return nil, ErrNotFound
}
