// internal/repository/sqlstore/inventory_store.go
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fortinat-shop/internal/repository"
)

// InventoryRepository implements repository.InventoryRepository for PostgreSQL and SQLite.
type InventoryRepository struct{}

// NewInventoryRepository creates a new InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &InventoryRepository{}
}

// AddItems appends cosmetic ids after the user's highest slot.
func (r *InventoryRepository) AddItems(ctx context.Context, q repository.DBExecutor, userID string, cosmeticIDs []string) error {
	if len(cosmeticIDs) == 0 {
		return nil
	}

	var last int64
	maxQuery := q.Rebind(`SELECT COALESCE(MAX(slot), 0) FROM user_inventory WHERE user_id = ?`)
	if err := q.GetContext(ctx, &last, maxQuery, userID); err != nil {
		return fmt.Errorf("failed to read inventory slots for user %s: %w", userID, err)
	}

	now := time.Now().UTC()
	insert := q.Rebind(`INSERT INTO user_inventory (user_id, cosmetic_id, slot, acquired_at) VALUES (?, ?, ?, ?)`)
	for i, id := range cosmeticIDs {
		if _, err := q.ExecContext(ctx, insert, userID, id, last+int64(i)+1, now); err != nil {
			return fmt.Errorf("failed to add item %s for user %s: %w", id, userID, err)
		}
	}
	return nil
}

// RemoveItems deletes cosmetic ids from the user's inventory in one statement.
func (r *InventoryRepository) RemoveItems(ctx context.Context, q repository.DBExecutor, userID string, cosmeticIDs []string) error {
	if len(cosmeticIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM user_inventory WHERE user_id = ? AND cosmetic_id IN (?)`, userID, cosmeticIDs)
	if err != nil {
		return fmt.Errorf("failed to build inventory delete for user %s: %w", userID, err)
	}
	if _, err := q.ExecContext(ctx, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to remove items for user %s: %w", userID, err)
	}
	return nil
}

// ListItems returns the user's cosmetic ids in acquisition order.
func (r *InventoryRepository) ListItems(ctx context.Context, q repository.DBExecutor, userID string) ([]string, error) {
	items := []string{}
	query := q.Rebind(`SELECT cosmetic_id FROM user_inventory WHERE user_id = ? ORDER BY slot`)
	if err := q.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list inventory for user %s: %w", userID, err)
	}
	return items, nil
}

type inventoryRow struct {
	UserID     string `db:"user_id"`
	CosmeticID string `db:"cosmetic_id"`
}

// ListItemsByUserIDs loads the inventories of userIDs in a single query.
func (r *InventoryRepository) ListItemsByUserIDs(ctx context.Context, q repository.DBExecutor, userIDs []string) (map[string][]string, error) {
	inventories := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return inventories, nil
	}

	query, args, err := sqlx.In(`
		SELECT user_id, cosmetic_id
		FROM user_inventory
		WHERE user_id IN (?)
		ORDER BY user_id, slot`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory query: %w", err)
	}

	var rows []inventoryRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list inventories: %w", err)
	}
	for _, row := range rows {
		inventories[row.UserID] = append(inventories[row.UserID], row.CosmeticID)
	}
	return inventories, nil
}
