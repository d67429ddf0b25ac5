// internal/api/handler/ledger.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fortinat-shop/internal/api/types"
	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/service"
	"fortinat-shop/internal/util"
)

// LedgerHandler handles purchases, refunds and ledger reads.
type LedgerHandler struct {
	responder
	service service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// BuyRequest represents the request body for a purchase.
type BuyRequest struct {
	UserID string              `json:"userId"`
	Item   domain.PurchaseItem `json:"item"`
}

// Buy purchases an item for a user.
// POST /api/buy
func (h *LedgerHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	if req.UserID == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Buy(r.Context(), req.UserID, req.Item)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// RefundRequest represents the request body for a refund. Amount is credited
// only when no purchase receipt exists for the item.
type RefundRequest struct {
	UserID string          `json:"userId"`
	ItemID string          `json:"itemId"`
	Amount decimal.Decimal `json:"amount"`
}

// Refund returns an item for a user.
// POST /api/refund
func (h *LedgerHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	if req.UserID == "" || req.ItemID == "" {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Refund(r.Context(), req.UserID, req.ItemID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, user)
}

// GetTransactionHistory handles the transaction history request with pagination.
// GET /api/users/{userID}/history?limit=10&offset=0
func (h *LedgerHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = service.DefaultHistoryLimit
	}
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0 // Default offset
	}

	transactions, totalCount, err := h.service.GetTransactionHistory(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// Audit replays a user's history against the stored state.
// GET /api/users/{userID}/audit
func (h *LedgerHandler) Audit(w http.ResponseWriter, r *http.Request) {
	audit, err := h.service.Audit(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, audit)
}
