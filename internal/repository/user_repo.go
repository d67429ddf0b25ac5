// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"fortinat-shop/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id string) (*domain.User, error)
	// GetUserByEmail retrieves a user by their email using the provided DBExecutor.
	GetUserByEmail(ctx context.Context, q DBExecutor, email string) (*domain.User, error)
	// ListUsers retrieves all users ordered by registration time.
	ListUsers(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// UpdateUserBalance stores the new balance of a specific user.
	UpdateUserBalance(ctx context.Context, q DBExecutor, id string, balance decimal.Decimal) error
}
