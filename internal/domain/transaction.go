// internal/domain/transaction.go
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the type of a ledger transaction.
type TransactionType string

const (
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeRefund   TransactionType = "REFUND"
)

// Transaction represents one append-only ledger entry of a user.
type Transaction struct {
	ID              string          `db:"id" json:"id"`                        // UUID, TEXT primary key in DB
	UserID          string          `db:"user_id" json:"-"`                    // Owner of the entry
	Seq             int64           `db:"seq" json:"-"`                        // 1-based position in the owner's history
	CosmeticID      string          `db:"cosmetic_id" json:"cosmeticId"`       // Primary item of the purchase or refund
	CosmeticName    string          `db:"cosmetic_name" json:"cosmeticName"`   // Display name at transaction time
	CosmeticImage   string          `db:"cosmetic_image" json:"cosmeticImage"` // Image reference at transaction time
	Amount          decimal.Decimal `db:"amount" json:"amount"`                // Negative for purchases, positive for refunds
	Type            TransactionType `db:"type" json:"type"`                    // PURCHASE or REFUND
	TransactionTime time.Time       `db:"transaction_time" json:"date"`        // Time the entry was recorded
	RelatedItems    []string        `db:"-" json:"relatedItems"`               // Exact item ids added or removed
}

// NewTransaction creates a new Transaction instance.
func NewTransaction(
	txType TransactionType,
	cosmeticID string,
	cosmeticName string,
	cosmeticImage string,
	amount decimal.Decimal,
	relatedItems []string,
) *Transaction {
	if relatedItems == nil {
		relatedItems = []string{}
	}
	return &Transaction{
		ID:              uuid.NewString(),
		CosmeticID:      cosmeticID,
		CosmeticName:    cosmeticName,
		CosmeticImage:   cosmeticImage,
		Amount:          amount,
		Type:            txType,
		TransactionTime: time.Now().UTC(),
		RelatedItems:    relatedItems,
	}
}

// Covers reports whether the transaction is a purchase that granted cosmeticID,
// either as its primary item or as part of a bundle.
func (t *Transaction) Covers(cosmeticID string) bool {
	if t.Type != TransactionTypePurchase {
		return false
	}
	return t.CosmeticID == cosmeticID || slices.Contains(t.RelatedItems, cosmeticID)
}
