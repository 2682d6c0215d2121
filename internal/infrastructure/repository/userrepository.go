// Package repository holds the storefront's data access implementations.
// The demo deployment runs entirely on seeded in-memory data.
package repository

import (
	"context"
	"strings"
	"sync"

	"shoplane/internal/domain/user"
	"shoplane/internal/shared/errors"
)

// InMemoryUserRepository is a read-mostly user store seeded at startup.
type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

// Seed registers users, replacing any previous entry with the same ID or email.
func (r *InMemoryUserRepository) Seed(users ...*user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range users {
		r.byID[u.ID] = u
		r.byEmail[strings.ToLower(u.Email)] = u
	}
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError("user not found")
	}
	return u, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, errors.NewNotFoundError("user not found")
	}
	return u, nil
}
