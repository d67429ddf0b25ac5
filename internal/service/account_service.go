// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
	"fortinat-shop/internal/util"
	"fortinat-shop/pkg/db"
)

// AccountService defines the interface for registration and user lookup.
type AccountService interface {
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo   repository.UserRepository
	loader     userLoader
	bcryptCost int
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *slog.Logger
}

// NewAccountService creates a new instance of AccountService.
// A bcryptCost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	inventoryRepo repository.InventoryRepository,
	transactionRepo repository.TransactionRepository,
	bcryptCost int,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &accountService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		loader: userLoader{
			userRepo:        userRepo,
			inventoryRepo:   inventoryRepo,
			transactionRepo: transactionRepo,
		},
		bcryptCost: bcryptCost,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// Register creates a user holding the initial grant and an empty inventory.
func (s *accountService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", util.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	_, err = s.userRepo.GetUserByEmail(ctx, txExecutor, email)
	if err == nil {
		return nil, util.ErrAlreadyExists
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check existing user: %w", err)
	}

	user := domain.NewUser(email, strings.TrimSpace(name), string(hash))
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		// A concurrent registration may win between the check and the insert.
		if errors.Is(err, util.ErrAlreadyExists) {
			return nil, util.ErrAlreadyExists
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register: failed to commit transaction: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "balance", user.Balance.String())
	return user, nil
}

// Login returns the user whose password matches.
func (s *accountService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", util.ErrInvalidInput)
	}

	user, err := s.loader.byEmail(ctx, s.dbExecutor, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to verify password: %w", err)
	}
	return user, nil
}

func (s *accountService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.loader.byEmail(ctx, s.dbExecutor, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (s *accountService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.loader.byID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user with its inventory. History is not loaded
// and password hashes are cleared.
func (s *accountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	inventories, err := s.loader.inventoryRepo.ListItemsByUserIDs(ctx, s.dbExecutor, ids)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]domain.User, 0, len(users))
	for i := range users {
		user := &users[i]
		user.Inventory = inventories[user.ID]
		if user.Inventory == nil {
			user.Inventory = []string{}
		}
		user.History = []domain.Transaction{}
		result = append(result, user.Public())
	}
	return result, nil
}
