package memory

import (
	"context"
	"sync"

	"solana-trust-scan/internal/domain"
	"solana-trust-scan/internal/storage"
)

// MetadataCacheStore is an in-memory implementation of storage.MetadataCacheStore.
type MetadataCacheStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.TokenMetadata
}

// NewMetadataCacheStore creates a new in-memory metadata cache.
func NewMetadataCacheStore() *MetadataCacheStore {
	return &MetadataCacheStore{
		byMint: make(map[string]*domain.TokenMetadata),
	}
}

// Put inserts or replaces the cached metadata for m.Mint.
func (s *MetadataCacheStore) Put(_ context.Context, m *domain.TokenMetadata) error {
	if m == nil || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	metaCopy := *m
	s.byMint[m.Mint] = &metaCopy
	return nil
}

// Get retrieves cached metadata by mint. Returns ErrNotFound if not cached.
func (s *MetadataCacheStore) Get(_ context.Context, mint string) (*domain.TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	metaCopy := *m
	return &metaCopy, nil
}

var _ storage.MetadataCacheStore = (*MetadataCacheStore)(nil)
