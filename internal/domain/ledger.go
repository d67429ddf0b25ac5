// internal/domain/ledger.go
package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"fortinat-shop/internal/util"
)

// InitialBalance is granted to every user on registration.
var InitialBalance = decimal.NewFromInt(10000)

// RecoveredItemName names refunds recorded without a matching purchase receipt.
const RecoveredItemName = "Refund (recovered item)"

// MoneyScale is the number of decimal places stored for balances and amounts.
const MoneyScale = 4

// CheckScale rejects amounts with more decimal places than the store keeps.
// Trailing zeros beyond the scale are accepted.
func CheckScale(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", util.ErrInvalidInput, field, MoneyScale)
	}
	return nil
}

// PurchaseItem describes what is being bought. BundleIDs lists the other
// cosmetics granted together with ID.
type PurchaseItem struct {
	ID        string          `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	BundleIDs []string        `json:"bundleIds,omitempty"`
}

// Validate rejects descriptors the ledger cannot record.
func (p PurchaseItem) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: item id is required", util.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: item price must not be negative", util.ErrInvalidInput)
	}
	return CheckScale("item price", p.Price)
}

// Grants returns the primary id followed by the bundle ids, without duplicates.
func (p PurchaseItem) Grants() []string {
	ids := make([]string, 0, 1+len(p.BundleIDs))
	ids = append(ids, p.ID)
	for _, id := range p.BundleIDs {
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Purchase buys item for u. On success the user's balance, inventory and
// history already reflect the purchase and the recorded entry is returned.
// On error u is left untouched.
func (u *User) Purchase(item PurchaseItem) (*Transaction, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if u.Owns(item.ID) {
		return nil, util.ErrAlreadyOwned
	}
	if u.Balance.LessThan(item.Price) {
		return nil, util.ErrInsufficientBalance
	}

	// A bundle may contain items already owned individually.
	newItems := make([]string, 0, len(item.BundleIDs)+1)
	for _, id := range item.Grants() {
		if !u.Owns(id) {
			newItems = append(newItems, id)
		}
	}

	tx := NewTransaction(TransactionTypePurchase, item.ID, item.Name, item.Image, item.Price.Neg(), newItems)
	u.apply(tx)
	return tx, nil
}

// FindReceipt returns the most recent purchase that granted cosmeticID, or nil.
func (u *User) FindReceipt(cosmeticID string) *Transaction {
	for i := len(u.History) - 1; i >= 0; i-- {
		if u.History[i].Covers(cosmeticID) {
			return &u.History[i]
		}
	}
	return nil
}

// Refund returns cosmeticID. When a receipt exists the whole purchase is
// reversed, bundle included, for the price that was paid. Without a receipt
// only cosmeticID is removed and |fallbackPrice| is credited; recovered
// reports that case.
func (u *User) Refund(cosmeticID string, fallbackPrice decimal.Decimal) (tx *Transaction, recovered bool, err error) {
	if !u.Owns(cosmeticID) {
		return nil, false, util.ErrNotOwned
	}

	var (
		amount   decimal.Decimal
		toRemove []string
		name     string
		image    string
	)
	if receipt := u.FindReceipt(cosmeticID); receipt != nil {
		amount = receipt.Amount.Abs()
		toRemove = receipt.RelatedItems
		if len(toRemove) == 0 {
			toRemove = []string{cosmeticID}
		}
		name, image = receipt.CosmeticName, receipt.CosmeticImage
	} else {
		recovered = true
		amount = fallbackPrice.Abs()
		toRemove = []string{cosmeticID}
		name = RecoveredItemName
	}

	// Only what is still held can be taken back.
	removed := make([]string, 0, len(toRemove))
	for _, id := range toRemove {
		if u.Owns(id) && !slices.Contains(removed, id) {
			removed = append(removed, id)
		}
	}

	tx = NewTransaction(TransactionTypeRefund, cosmeticID, name, image, amount, removed)
	u.apply(tx)
	return tx, recovered, nil
}

// apply folds tx into the user's state and appends it to the history.
func (u *User) apply(tx *Transaction) {
	u.Balance = u.Balance.Add(tx.Amount)
	switch tx.Type {
	case TransactionTypePurchase:
		for _, id := range tx.RelatedItems {
			if !u.Owns(id) {
				u.Inventory = append(u.Inventory, id)
			}
		}
	case TransactionTypeRefund:
		u.Inventory = slices.DeleteFunc(u.Inventory, func(id string) bool {
			return slices.Contains(tx.RelatedItems, id)
		})
	}
	tx.UserID = u.ID
	tx.Seq = int64(len(u.History) + 1)
	u.History = append(u.History, *tx)
}

// Replay rebuilds balance and inventory from the initial grant and history.
func Replay(history []Transaction) (decimal.Decimal, []string) {
	u := &User{Balance: InitialBalance, Inventory: []string{}}
	for i := range history {
		tx := history[i]
		u.apply(&tx)
	}
	return u.Balance, u.Inventory
}

// LedgerAudit compares a user's stored state with the replay of its history.
type LedgerAudit struct {
	UserID          string          `json:"userId"`
	Consistent      bool            `json:"consistent"`
	Transactions    int             `json:"transactions"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	MissingItems    []string        `json:"missingItems"`    // Replayed but not stored
	UnexpectedItems []string        `json:"unexpectedItems"` // Stored but not replayed
}

// Audit replays u's history and reports any divergence from stored state.
func (u *User) Audit() LedgerAudit {
	balance, inventory := Replay(u.History)
	audit := LedgerAudit{
		UserID:          u.ID,
		Transactions:    len(u.History),
		StoredBalance:   u.Balance,
		ReplayedBalance: balance,
		MissingItems:    []string{},
		UnexpectedItems: []string{},
	}
	for _, id := range inventory {
		if !u.Owns(id) {
			audit.MissingItems = append(audit.MissingItems, id)
		}
	}
	for _, id := range u.Inventory {
		if !slices.Contains(inventory, id) {
			audit.UnexpectedItems = append(audit.UnexpectedItems, id)
		}
	}
	audit.Consistent = balance.Equal(u.Balance) &&
		len(audit.MissingItems) == 0 &&
		len(audit.UnexpectedItems) == 0
	return audit
}
