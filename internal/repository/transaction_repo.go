// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"fortinat-shop/internal/domain"
)

// TransactionRepository defines the interface for ledger transaction operations.
type TransactionRepository interface {
	// CreateTransaction adds a new transaction record, including its related items.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListTransactionsByUserID retrieves the user's full history in chronological order.
	ListTransactionsByUserID(ctx context.Context, q DBExecutor, userID string) ([]domain.Transaction, error)
	// GetTransactionsByUserID retrieves a newest-first page of the user's history and the total count.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID string, limit, offset int) ([]domain.Transaction, int64, error)
}
