// internal/repository/sqlstore/user_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
	"fortinat-shop/internal/util"
)

const userColumns = `id, email, name, password_hash, balance, created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL and SQLite.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
// The db parameter is not stored in the struct, but passed to methods.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
// A taken email or id yields util.ErrAlreadyExists.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := q.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Balance,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email '%s': %w", user.Email, util.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := q.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email using the provided DBExecutor.
func (r *UserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	var user domain.User
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	if err := q.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email '%s': %w", email, err)
	}
	return &user, nil
}

// ListUsers retrieves every user ordered by registration time.
func (r *UserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	if err := q.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserBalance stores the balance of a specific user using the provided DBExecutor.
func (r *UserRepository) UpdateUserBalance(ctx context.Context, q repository.DBExecutor, id string, balance decimal.Decimal) error {
	query := q.Rebind(`UPDATE users SET balance = ?, updated_at = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, balance, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating balance for user %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating balance for user %s: %w", id, util.ErrNotFound)
	}
	return nil
}
