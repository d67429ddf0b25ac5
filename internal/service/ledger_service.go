// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
	"fortinat-shop/internal/util"
	"fortinat-shop/pkg/db"
)

// DefaultHistoryLimit is the page size used when a caller asks for none.
const DefaultHistoryLimit = 10

// LedgerService defines the interface for balance and inventory operations.
type LedgerService interface {
	Buy(ctx context.Context, userID string, item domain.PurchaseItem) (*domain.User, error)
	Refund(ctx context.Context, userID, cosmeticID string, fallbackPrice decimal.Decimal) (*domain.User, error)
	GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error)
	Audit(ctx context.Context, userID string) (*domain.LedgerAudit, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo        repository.UserRepository
	inventoryRepo   repository.InventoryRepository
	transactionRepo repository.TransactionRepository
	loader          userLoader
	locks           *userLocks // Serializes buy/refund per user
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	inventoryRepo repository.InventoryRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) LedgerService {
	return &ledgerService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		inventoryRepo:   inventoryRepo,
		transactionRepo: transactionRepo,
		loader: userLoader{
			userRepo:        userRepo,
			inventoryRepo:   inventoryRepo,
			transactionRepo: transactionRepo,
		},
		locks:      newUserLocks(),
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// Buy debits item.Price and grants the item plus any bundle members not yet owned.
func (s *ledgerService) Buy(ctx context.Context, userID string, item domain.PurchaseItem) (*domain.User, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	user, err := s.loader.byID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	transaction, err := user.Purchase(item)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, txExecutor, user, transaction); err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("buy: failed to commit transaction: %w", err)
	}

	s.logger.Info("Item purchased",
		"user_id", user.ID,
		"cosmetic_id", item.ID,
		"amount", transaction.Amount.String(),
		"related_items", transaction.RelatedItems,
		"balance", user.Balance.String(),
	)
	return user, nil
}

// Refund returns cosmeticID. With a purchase receipt the whole purchase is
// reversed; without one only cosmeticID is removed and |fallbackPrice| is credited.
func (s *ledgerService) Refund(ctx context.Context, userID, cosmeticID string, fallbackPrice decimal.Decimal) (*domain.User, error) {
	if cosmeticID == "" {
		return nil, fmt.Errorf("%w: item id is required", util.ErrInvalidInput)
	}
	if err := domain.CheckScale("refund amount", fallbackPrice); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("refund: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("refund: transaction controller does not implement DBExecutor")
	}

	user, err := s.loader.byID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("refund: %w", err)
	}

	transaction, recovered, err := user.Refund(cosmeticID, fallbackPrice)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, txExecutor, user, transaction); err != nil {
		return nil, fmt.Errorf("refund: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("refund: failed to commit transaction: %w", err)
	}

	if recovered {
		s.logger.Warn("Refund without purchase receipt, credited fallback price",
			"user_id", user.ID,
			"cosmetic_id", cosmeticID,
			"amount", transaction.Amount.String(),
		)
	}
	s.logger.Info("Item refunded",
		"user_id", user.ID,
		"cosmetic_id", cosmeticID,
		"amount", transaction.Amount.String(),
		"related_items", transaction.RelatedItems,
		"balance", user.Balance.String(),
	)
	return user, nil
}

// persist writes the entry, the inventory delta and the new balance.
func (s *ledgerService) persist(ctx context.Context, q repository.DBExecutor, user *domain.User, transaction *domain.Transaction) error {
	if err := s.transactionRepo.CreateTransaction(ctx, q, transaction); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	switch transaction.Type {
	case domain.TransactionTypePurchase:
		if err := s.inventoryRepo.AddItems(ctx, q, user.ID, transaction.RelatedItems); err != nil {
			return fmt.Errorf("failed to add items: %w", err)
		}
	case domain.TransactionTypeRefund:
		if err := s.inventoryRepo.RemoveItems(ctx, q, user.ID, transaction.RelatedItems); err != nil {
			return fmt.Errorf("failed to remove items: %w", err)
		}
	}

	if err := s.userRepo.UpdateUserBalance(ctx, q, user.ID, user.Balance); err != nil {
		return fmt.Errorf("failed to update user balance: %w", err)
	}
	return nil
}

// GetTransactionHistory retrieves a newest-first page of a user's transactions.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("%w: offset must not be negative", util.ErrInvalidInput)
	}

	// First, check if the user exists
	_, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, 0, util.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to check user existence: %w", err)
	}

	transactions, totalCount, err := s.transactionRepo.GetTransactionsByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return transactions, totalCount, nil
}

// Audit replays the user's history and compares it with the stored state.
func (s *ledgerService) Audit(ctx context.Context, userID string) (*domain.LedgerAudit, error) {
	user, err := s.loader.byID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	audit := user.Audit()
	if !audit.Consistent {
		s.logger.Warn("Ledger audit found divergence",
			"user_id", user.ID,
			"stored_balance", audit.StoredBalance.String(),
			"replayed_balance", audit.ReplayedBalance.String(),
			"missing_items", audit.MissingItems,
			"unexpected_items", audit.UnexpectedItems,
		)
	}
	return &audit, nil
}
