// internal/domain/catalog.go
package domain

import (
	"strings"
	"time"
)

// CosmeticFilter narrows the catalog. Zero values match everything.
type CosmeticFilter struct {
	Search          string     // Case-insensitive name substring
	Type            string     // Type value, e.g. "outfit"
	Rarity          string     // Rarity value, e.g. "legendary"
	AddedFrom       *time.Time // Inclusive
	AddedTo         *time.Time // Inclusive
	NewOnly         bool
	OnSaleOnly      bool
	PromotionalOnly bool
}

// Matches reports whether c passes every criterion of f.
func (f CosmeticFilter) Matches(c Cosmetic) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Type != "" && c.Type.Value != f.Type {
		return false
	}
	if f.Rarity != "" && c.Rarity.Value != f.Rarity {
		return false
	}
	if f.AddedFrom != nil && c.Added.Before(*f.AddedFrom) {
		return false
	}
	if f.AddedTo != nil && c.Added.After(*f.AddedTo) {
		return false
	}
	if f.NewOnly && !c.IsNew {
		return false
	}
	if f.OnSaleOnly && !c.IsOnSale {
		return false
	}
	if f.PromotionalOnly && !c.IsPromotional {
		return false
	}
	return true
}

// CatalogOption is one selectable value of a catalog filter.
type CatalogOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CatalogOptions lists the distinct types and rarities present in the catalog.
type CatalogOptions struct {
	Types    []CatalogOption `json:"types"`
	Rarities []CatalogOption `json:"rarities"`
}
