// internal/domain/user.go
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a shop account together with its ledger state.
type User struct {
	ID           string          `db:"id" json:"id"`                 // UUID, TEXT primary key in DB
	Email        string          `db:"email" json:"email"`           // Unique login email
	Name         string          `db:"name" json:"name"`             // Display name
	PasswordHash string          `db:"password_hash" json:"-"`       // bcrypt hash, never serialized
	Balance      decimal.Decimal `db:"balance" json:"balance"`       // Current balance, NUMERIC(20, 4) in DB
	Inventory    []string        `db:"-" json:"inventory"`           // Owned cosmetic ids in acquisition order
	History      []Transaction   `db:"-" json:"history"`             // Chronological ledger entries
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`  // Timestamp of registration
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`  // Timestamp of last balance change
}

// NewUser creates a freshly registered user holding the initial grant.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Balance:      InitialBalance,
		Inventory:    []string{},
		History:      []Transaction{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Owns reports whether cosmeticID is in the user's inventory.
func (u *User) Owns(cosmeticID string) bool {
	return slices.Contains(u.Inventory, cosmeticID)
}

// Public returns a copy of the user safe to hand out in listings.
func (u *User) Public() User {
	c := *u
	c.PasswordHash = ""
	c.Inventory = slices.Clone(u.Inventory)
	c.History = slices.Clone(u.History)
	return c
}
