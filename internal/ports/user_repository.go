package ports

import (
	"context"
	"errors"
	"fleet-tracking-service/internal/domain"
)

// ErrNotFound is returned by repositories when a requested entity is absent.
var ErrNotFound = errors.New("not found")

// Port: a boundary for user accounts and driver shift assignments.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error

	// Lookup by email for authentication. Wraps ErrNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// All users in a company/sector scope.
	ListUsers(ctx context.Context, companyID, sectorID string) ([]*domain.User, error)
}
