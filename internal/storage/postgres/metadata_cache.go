package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/storage"
)

// MetadataCacheStore implements storage.MetadataCacheStore using PostgreSQL.
// Unlike an append-only store, the cache upserts: a refresh replaces the
// previous row for the mint.
type MetadataCacheStore struct {
	pool *Pool
}

// NewMetadataCacheStore creates a new MetadataCacheStore.
func NewMetadataCacheStore(pool *Pool) *MetadataCacheStore {
	return &MetadataCacheStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MetadataCacheStore = (*MetadataCacheStore)(nil)

// Put inserts or replaces the cached metadata for m.Mint.
func (s *MetadataCacheStore) Put(ctx context.Context, m *domain.TokenMetadata) error {
	if m == nil || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO metadata_cache (
			mint, name, symbol, logo_uri, website, source, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (mint) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			logo_uri = EXCLUDED.logo_uri,
			website = EXCLUDED.website,
			source = EXCLUDED.source,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := s.pool.Exec(ctx, query,
		m.Mint,
		m.Name,
		m.Symbol,
		m.LogoURI,
		m.Website,
		m.Source,
		m.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("put metadata cache: %w", err)
	}
	return nil
}

// Get retrieves cached metadata by mint. Returns ErrNotFound if not cached.
func (s *MetadataCacheStore) Get(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	query := `
		SELECT mint, name, symbol, logo_uri, website, source, fetched_at
		FROM metadata_cache
		WHERE mint = $1
	`

	row := s.pool.QueryRow(ctx, query, mint)
	m, err := scanMetadata(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get metadata cache: %w", err)
	}
	return m, nil
}

// scanMetadata scans a single row into TokenMetadata.
func scanMetadata(row pgx.Row) (*domain.TokenMetadata, error) {
	var m domain.TokenMetadata

	err := row.Scan(
		&m.Mint,
		&m.Name,
		&m.Symbol,
		&m.LogoURI,
		&m.Website,
		&m.Source,
		&m.FetchedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
