// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/repository"
	"fortinat-shop/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) Rebind(query string) string {
	return query
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserBalance(ctx context.Context, q repository.DBExecutor, id string, balance decimal.Decimal) error {
	args := m.Called(ctx, q, id, balance)
	return args.Error(0)
}

// MockInventoryRepository is a mock implementation of repository.InventoryRepository.
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) AddItems(ctx context.Context, q repository.DBExecutor, userID string, cosmeticIDs []string) error {
	args := m.Called(ctx, q, userID, cosmeticIDs)
	return args.Error(0)
}

func (m *MockInventoryRepository) RemoveItems(ctx context.Context, q repository.DBExecutor, userID string, cosmeticIDs []string) error {
	args := m.Called(ctx, q, userID, cosmeticIDs)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListItems(ctx context.Context, q repository.DBExecutor, userID string) ([]string, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInventoryRepository) ListItemsByUserIDs(ctx context.Context, q repository.DBExecutor, userIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, q, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implicitly implements repository.DBExecutor for testing purposes
// by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor // Embed MockDBExecutor to satisfy repository.DBExecutor interface
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// serviceMocks bundles the collaborators shared by the service constructors.
type serviceMocks struct {
	beginner        *MockDBBeginner
	executor        *MockDBExecutor
	txController    *MockTxController
	userRepo        *MockUserRepository
	inventoryRepo   *MockInventoryRepository
	transactionRepo *MockTransactionRepository
	beginCalls      int
}

func newServiceMocks() *serviceMocks {
	return &serviceMocks{
		beginner:        new(MockDBBeginner),
		executor:        new(MockDBExecutor),
		txController:    new(MockTxController),
		userRepo:        new(MockUserRepository),
		inventoryRepo:   new(MockInventoryRepository),
		transactionRepo: new(MockTransactionRepository),
	}
}

func (m *serviceMocks) beginTx(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
	m.beginCalls++
	return m.txController, nil
}

func (m *serviceMocks) commitTx(tx db.TxController) error {
	return m.txController.Commit()
}

func (m *serviceMocks) rollbackTx(tx db.TxController) {
	_ = m.txController.Rollback()
}

func (m *serviceMocks) all() []interface{} {
	return []interface{}{m.beginner, m.executor, m.txController, m.userRepo, m.inventoryRepo, m.transactionRepo}
}

func (m *serviceMocks) ledger() LedgerService {
	return NewLedgerService(
		m.beginner,
		m.executor,
		m.userRepo,
		m.inventoryRepo,
		m.transactionRepo,
		m.beginTx,
		m.commitTx,
		m.rollbackTx,
		discardLogger(),
	)
}

func (m *serviceMocks) accounts() AccountService {
	return NewAccountService(
		m.beginner,
		m.executor,
		m.userRepo,
		m.inventoryRepo,
		m.transactionRepo,
		4, // bcrypt.MinCost keeps tests fast
		m.beginTx,
		m.commitTx,
		m.rollbackTx,
		discardLogger(),
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
