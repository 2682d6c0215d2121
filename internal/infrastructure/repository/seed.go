package repository

import (
	"fmt"

	"shoplane/internal/domain/user"
)

// PasswordHasher hashes plaintext passwords for seeded accounts.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type demoAccount struct {
	id       string
	email    string
	name     string
	role     user.Role
	password string
}

// The storefront ships with fixed demo accounts instead of a signup flow.
var demoAccounts = []demoAccount{
	{id: "usr_admin", email: "admin@shoplane.dev", name: "Store Admin", role: user.RoleAdmin, password: "admin123!"},
	{id: "usr_jane", email: "jane@example.com", name: "Jane Doe", role: user.RoleCustomer, password: "shopper123!"},
	{id: "usr_sam", email: "sam@example.com", name: "Sam Smith", role: user.RoleCustomer, password: "shopper123!"},
}

// SeedDemoUsers populates the repository with the demo accounts, hashing
// their passwords with the configured hasher.
func SeedDemoUsers(repo *InMemoryUserRepository, hasher PasswordHasher) error {
	for _, acct := range demoAccounts {
		hash, err := hasher.Hash(acct.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", acct.email, err)
		}

		u, err := user.NewUser(acct.id, acct.email, acct.name, acct.role, hash)
		if err != nil {
			return fmt.Errorf("failed to build demo user %s: %w", acct.email, err)
		}
		repo.Seed(u)
	}
	return nil
}
