// internal/api/handler/handler_test.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/util"
)

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	args := m.Called(ctx, email, name, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Buy(ctx context.Context, userID string, item domain.PurchaseItem) (*domain.User, error) {
	args := m.Called(ctx, userID, item)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedgerService) Refund(ctx context.Context, userID, cosmeticID string, fallbackPrice decimal.Decimal) (*domain.User, error) {
	args := m.Called(ctx, userID, cosmeticID, fallbackPrice)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedgerService) GetTransactionHistory(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) Audit(ctx context.Context, userID string) (*domain.LedgerAudit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAudit), args.Error(1)
}

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Search(ctx context.Context, filter domain.CosmeticFilter, page, pageSize int) ([]domain.Cosmetic, int, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.Cosmetic), args.Int(1), args.Error(2)
}

func (m *MockCatalogService) GetCosmetic(ctx context.Context, id string) (*domain.Cosmetic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cosmetic), args.Error(1)
}

func (m *MockCatalogService) Options(ctx context.Context) (*domain.CatalogOptions, error) {
	args := m.Called(ctx)
	return args.Get(0).(*domain.CatalogOptions), args.Error(1)
}

func (m *MockCatalogService) Owned(ctx context.Context, inventory []string) ([]domain.Cosmetic, error) {
	args := m.Called(ctx, inventory)
	return args.Get(0).([]domain.Cosmetic), args.Error(1)
}

func userOrNil(v interface{}) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleUser() *domain.User {
	u := domain.NewUser("player@example.com", "Player", "secret-hash")
	u.Inventory = []string{"A"}
	return u
}

// serve routes a single request through a chi router so URL params resolve.
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestRespondWithErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: bad", util.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("buy: %w", util.ErrUserNotFound), http.StatusNotFound},
		{util.ErrNotFound, http.StatusNotFound},
		{util.ErrAlreadyExists, http.StatusConflict},
		{util.ErrInvalidCredentials, http.StatusUnauthorized},
		{util.ErrAlreadyOwned, http.StatusConflict},
		{util.ErrNotOwned, http.StatusConflict},
		{util.ErrInsufficientBalance, http.StatusPaymentRequired},
		{fmt.Errorf("catalog: %w", util.ErrCatalogUnavailable), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	h := responder{logger: discardLogger()}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.respondWithError(rec, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.NotEmpty(t, decodeMessage(t, rec))
		})
	}
}

func TestAccountHandler(t *testing.T) {
	t.Run("RegisterCreatesUserWithoutPassword", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, discardLogger())
		svc.On("Register", mock.Anything, "player@example.com", "Player", "secret").Return(sampleUser(), nil).Once()

		rec := serve(http.MethodPost, "/api/register", "/api/register",
			`{"email":"player@example.com","name":"Player","password":"secret"}`, h.Register)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
		assert.NotContains(t, rec.Body.String(), "password")
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		for _, key := range []string{"id", "email", "name", "balance", "inventory", "history", "createdAt"} {
			assert.Contains(t, body, key)
		}
		svc.AssertExpectations(t)
	})

	t.Run("RegisterRejectsMalformedBody", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, discardLogger())

		rec := serve(http.MethodPost, "/api/register", "/api/register", `{`, h.Register)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LoginWrongPassword", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, discardLogger())
		svc.On("Login", mock.Anything, "player@example.com", "nope").Return(nil, util.ErrInvalidCredentials).Once()

		rec := serve(http.MethodPost, "/api/login", "/api/login",
			`{"email":"player@example.com","password":"nope"}`, h.Login)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeMessage(t, rec))
	})

	t.Run("GetUserByEmail", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, discardLogger())
		svc.On("GetUserByEmail", mock.Anything, "player@example.com").Return(sampleUser(), nil).Once()

		rec := serve(http.MethodGet, "/api/user/{email}", "/api/user/player@example.com", "", h.GetUserByEmail)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("ListUsersReturnsSummaries", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, discardLogger())
		svc.On("ListUsers", mock.Anything).Return([]domain.User{sampleUser().Public()}, nil).Once()

		rec := serve(http.MethodGet, "/api/users", "/api/users", "", h.ListUsers)

		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.ElementsMatch(t, []string{"id", "name", "inventory"}, keys(body[0]))
	})
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestLedgerHandler(t *testing.T) {
	t.Run("BuyPassesItemDescriptor", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())
		item := domain.PurchaseItem{
			ID:        "A",
			Price:     decimal.NewFromInt(500),
			Name:      "Bundle A",
			Image:     "a.png",
			BundleIDs: []string{"B", "C"},
		}
		svc.On("Buy", mock.Anything, "user-1", mock.MatchedBy(func(got domain.PurchaseItem) bool {
			return got.ID == item.ID && got.Price.Equal(item.Price) && assert.ObjectsAreEqual(item.BundleIDs, got.BundleIDs)
		})).Return(sampleUser(), nil).Once()

		rec := serve(http.MethodPost, "/api/buy", "/api/buy",
			`{"userId":"user-1","item":{"id":"A","price":500,"name":"Bundle A","image":"a.png","bundleIds":["B","C"]}}`, h.Buy)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("BuyInsufficientBalance", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())
		svc.On("Buy", mock.Anything, "user-1", mock.Anything).Return(nil, util.ErrInsufficientBalance).Once()

		rec := serve(http.MethodPost, "/api/buy", "/api/buy", `{"userId":"user-1","item":{"id":"A","price":500}}`, h.Buy)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	})

	t.Run("BuyWithoutUser", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())

		rec := serve(http.MethodPost, "/api/buy", "/api/buy", `{"item":{"id":"A","price":500}}`, h.Buy)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RefundUsesAmountAsFallback", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())
		svc.On("Refund", mock.Anything, "user-1", "X", mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(300))
		})).Return(sampleUser(), nil).Once()

		rec := serve(http.MethodPost, "/api/refund", "/api/refund", `{"userId":"user-1","itemId":"X","amount":300}`, h.Refund)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("RefundNotOwned", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())
		svc.On("Refund", mock.Anything, "user-1", "X", mock.Anything).Return(nil, util.ErrNotOwned).Once()

		rec := serve(http.MethodPost, "/api/refund", "/api/refund", `{"userId":"user-1","itemId":"X"}`, h.Refund)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("HistoryDefaultsPagination", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())
		svc.On("GetTransactionHistory", mock.Anything, "user-1", 10, 0).
			Return([]domain.Transaction{{ID: "tx-1"}}, int64(1), nil).Once()

		rec := serve(http.MethodGet, "/api/users/{userID}/history", "/api/users/user-1/history?limit=abc&offset=-3", "", h.GetTransactionHistory)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data       []map[string]interface{} `json:"data"`
			Limit      int                      `json:"limit"`
			TotalCount int64                    `json:"total_count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 10, body.Limit)
		assert.Equal(t, int64(1), body.TotalCount)
		assert.Len(t, body.Data, 1)
	})

	t.Run("AuditUnknownUser", func(t *testing.T) {
		svc := new(MockLedgerService)
		h := NewLedgerHandler(svc, discardLogger())
		svc.On("Audit", mock.Anything, "ghost").Return(nil, util.ErrUserNotFound).Once()

		rec := serve(http.MethodGet, "/api/users/{userID}/audit", "/api/users/ghost/audit", "", h.Audit)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalogHandler(t *testing.T) {
	t.Run("ListCosmeticsParsesFilter", func(t *testing.T) {
		catalog := new(MockCatalogService)
		h := NewCatalogHandler(catalog, new(MockAccountService), discardLogger())
		catalog.On("Search", mock.Anything, mock.MatchedBy(func(f domain.CosmeticFilter) bool {
			return f.Search == "raider" && f.Rarity == "rare" && f.NewOnly && !f.OnSaleOnly &&
				f.AddedFrom != nil && f.AddedTo != nil && f.AddedTo.Hour() == 23
		}), 2, 24).Return([]domain.Cosmetic{{ID: "a"}}, 30, nil).Once()

		rec := serve(http.MethodGet, "/api/cosmetics", "/api/cosmetics?search=raider&rarity=rare&new=true&from=2024-01-01&to=2024-01-31&page=2", "", h.ListCosmetics)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Page)
		assert.Equal(t, 2, body.TotalPages)
		catalog.AssertExpectations(t)
	})

	t.Run("ListCosmeticsRejectsBadDate", func(t *testing.T) {
		catalog := new(MockCatalogService)
		h := NewCatalogHandler(catalog, new(MockAccountService), discardLogger())

		rec := serve(http.MethodGet, "/api/cosmetics", "/api/cosmetics?from=yesterday", "", h.ListCosmetics)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UpstreamFailureIsBadGateway", func(t *testing.T) {
		catalog := new(MockCatalogService)
		h := NewCatalogHandler(catalog, new(MockAccountService), discardLogger())
		catalog.On("Options", mock.Anything).Return((*domain.CatalogOptions)(nil), util.ErrCatalogUnavailable).Once()

		rec := serve(http.MethodGet, "/api/cosmetics/options", "/api/cosmetics/options", "", h.Options)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("GetCosmeticNotFound", func(t *testing.T) {
		catalog := new(MockCatalogService)
		h := NewCatalogHandler(catalog, new(MockAccountService), discardLogger())
		catalog.On("GetCosmetic", mock.Anything, "zzz").Return(nil, util.ErrNotFound).Once()

		rec := serve(http.MethodGet, "/api/cosmetics/{id}", "/api/cosmetics/zzz", "", h.GetCosmetic)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("OwnedItemsUsesInventory", func(t *testing.T) {
		catalog := new(MockCatalogService)
		accounts := new(MockAccountService)
		h := NewCatalogHandler(catalog, accounts, discardLogger())
		user := sampleUser()
		accounts.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
		catalog.On("Owned", mock.Anything, []string{"A"}).Return([]domain.Cosmetic{{ID: "A"}}, nil).Once()

		rec := serve(http.MethodGet, "/api/users/{userID}/items", "/api/users/"+user.ID+"/items", "", h.OwnedItems)

		assert.Equal(t, http.StatusOK, rec.Code)
		mock.AssertExpectationsForObjects(t, catalog, accounts)
	})
}
