package user

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
}

func NewUser(id, email, name string, role Role, passwordHash string) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if role == "" {
		role = RoleCustomer
	}
	return &User{
		ID:           id,
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: passwordHash,
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
