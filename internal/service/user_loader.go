// internal/service/user_loader.go
package service

import (
	"context"
	"errors"
	"fmt"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
	"fortinat-shop/internal/util"
)

// userLoader assembles a user together with its inventory and history.
type userLoader struct {
	userRepo        repository.UserRepository
	inventoryRepo   repository.InventoryRepository
	transactionRepo repository.TransactionRepository
}

func (l userLoader) byID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	user, err := l.userRepo.GetUserByID(ctx, q, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return l.hydrate(ctx, q, user)
}

func (l userLoader) byEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	user, err := l.userRepo.GetUserByEmail(ctx, q, email)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return l.hydrate(ctx, q, user)
}

func (l userLoader) hydrate(ctx context.Context, q repository.DBExecutor, user *domain.User) (*domain.User, error) {
	items, err := l.inventoryRepo.ListItems(ctx, q, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory of user %s: %w", user.ID, err)
	}
	history, err := l.transactionRepo.ListTransactionsByUserID(ctx, q, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history of user %s: %w", user.ID, err)
	}
	if items == nil {
		items = []string{}
	}
	if history == nil {
		history = []domain.Transaction{}
	}
	user.Inventory = items
	user.History = history
	return user, nil
}
