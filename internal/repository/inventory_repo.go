// internal/repository/inventory_repo.go
package repository

import "context"

// InventoryRepository defines the interface for owned-item operations.
type InventoryRepository interface {
	// AddItems appends cosmetic ids to the user's inventory, keeping their order.
	AddItems(ctx context.Context, q DBExecutor, userID string, cosmeticIDs []string) error
	// RemoveItems deletes cosmetic ids from the user's inventory.
	RemoveItems(ctx context.Context, q DBExecutor, userID string, cosmeticIDs []string) error
	// ListItems returns the user's cosmetic ids in acquisition order.
	ListItems(ctx context.Context, q DBExecutor, userID string) ([]string, error)
	// ListItemsByUserIDs returns the inventories of several users keyed by user id.
	// Users without items are absent from the map.
	ListItemsByUserIDs(ctx context.Context, q DBExecutor, userIDs []string) (map[string][]string, error)
}
