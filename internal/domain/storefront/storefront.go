// Package storefront declares the collaborator interfaces the session
// layer shares with the rest of the store. Handlers and middleware are
// written against these shapes; the catalog and cart backends behind
// them live outside this service.
package storefront

import (
	"context"
	"sync"
)

// Product is a catalog entry as the storefront presents it.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price_usd"`
	InStock  bool    `json:"in_stock"`
}

// Catalog exposes read access to the product listing.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
}

// KVStore is per-user keyed storage for cart and wishlist payloads.
// Values are opaque to the session layer.
type KVStore interface {
	Get(ctx context.Context, userID, key string) ([]byte, bool, error)
	Set(ctx context.Context, userID, key string, value []byte) error
	Delete(ctx context.Context, userID, key string) error
}

// MemoryKV is an in-memory KVStore, enough for tests and single-node
// deployments.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryKV creates an empty in-memory KV store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]map[string][]byte)}
}

func (s *MemoryKV) Get(_ context.Context, userID, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[userID][key]
	return value, ok, nil
}

func (s *MemoryKV) Set(_ context.Context, userID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[userID] == nil {
		s.data[userID] = make(map[string][]byte)
	}
	s.data[userID][key] = value
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[userID], key)
	return nil
}
