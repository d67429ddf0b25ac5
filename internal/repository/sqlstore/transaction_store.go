// internal/repository/sqlstore/transaction_store.go
package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
)

const transactionColumns = `id, user_id, seq, cosmetic_id, cosmetic_name, cosmetic_image, amount, type, transaction_time`

// TransactionRepository implements repository.TransactionRepository for PostgreSQL and SQLite.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a transaction and its related items using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := q.Rebind(`INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Seq,
		transaction.CosmeticID,
		transaction.CosmeticName,
		transaction.CosmeticImage,
		transaction.Amount,
		transaction.Type,
		transaction.TransactionTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	itemQuery := q.Rebind(`INSERT INTO transaction_items (transaction_id, slot, cosmetic_id) VALUES (?, ?, ?)`)
	for i, id := range transaction.RelatedItems {
		if _, err := q.ExecContext(ctx, itemQuery, transaction.ID, i+1, id); err != nil {
			return fmt.Errorf("failed to record related item %s of transaction %s: %w", id, transaction.ID, err)
		}
	}
	return nil
}

// ListTransactionsByUserID retrieves the user's whole history, oldest first.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := q.Rebind(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ? ORDER BY seq`)
	if err := q.SelectContext(ctx, &transactions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}
	if err := attachRelatedItems(ctx, q, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// GetTransactionsByUserID retrieves a paginated list of transactions for a specific user.
// It performs two queries: one for the data and one for the total count.
func (r *TransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	// Query 1: Get the paginated transactions, newest first
	query := q.Rebind(`
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
		ORDER BY seq DESC
		LIMIT ? OFFSET ?`)
	if err := q.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %s: %w", userID, err)
	}
	if err := attachRelatedItems(ctx, q, transactions); err != nil {
		return nil, 0, err
	}

	// Query 2: Get the total count of transactions for the user
	var totalCount int64
	countQuery := q.Rebind(`SELECT COUNT(*) FROM transactions WHERE user_id = ?`)
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to get total transaction count for user %s: %w", userID, err)
	}

	return transactions, totalCount, nil
}

type relatedItemRow struct {
	TransactionID string `db:"transaction_id"`
	CosmeticID    string `db:"cosmetic_id"`
}

// attachRelatedItems loads transaction_items for every transaction in one query.
func attachRelatedItems(ctx context.Context, q repository.DBExecutor, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	ids := make([]string, len(transactions))
	index := make(map[string]int, len(transactions))
	for i := range transactions {
		ids[i] = transactions[i].ID
		index[transactions[i].ID] = i
		transactions[i].RelatedItems = []string{}
	}

	query, args, err := sqlx.In(`
		SELECT transaction_id, cosmetic_id
		FROM transaction_items
		WHERE transaction_id IN (?)
		ORDER BY transaction_id, slot`, ids)
	if err != nil {
		return fmt.Errorf("failed to build related items query: %w", err)
	}

	var rows []relatedItemRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to fetch related items: %w", err)
	}
	for _, row := range rows {
		i := index[row.TransactionID]
		transactions[i].RelatedItems = append(transactions[i].RelatedItems, row.CosmeticID)
	}
	return nil
}
