// internal/domain/cosmetic.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attribute is a catalog classification such as a type or a rarity.
type Attribute struct {
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
	BackendValue string `json:"backendValue,omitempty"`
}

// Images holds the image references of a cosmetic.
type Images struct {
	SmallIcon  string `json:"smallIcon,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Featured   string `json:"featured,omitempty"`
	Background string `json:"background,omitempty"`
}

// Cosmetic is a catalog item as served to clients.
type Cosmetic struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Type          Attribute       `json:"type"`
	Rarity        Attribute       `json:"rarity"`
	Images        Images          `json:"images"`
	Added         time.Time       `json:"added"`
	Price         decimal.Decimal `json:"price"`
	RegularPrice  decimal.Decimal `json:"regularPrice"`
	IsNew         bool            `json:"isNew"`
	IsOnSale      bool            `json:"isOnSale"`
	IsPromotional bool            `json:"isPromotional"`
	BundleIDs     []string        `json:"bundleIds,omitempty"` // Ids granted together with this item
}

// PurchaseItem returns the descriptor the ledger needs to sell c.
func (c Cosmetic) PurchaseItem() PurchaseItem {
	image := c.Images.Icon
	if image == "" {
		image = c.Images.SmallIcon
	}
	return PurchaseItem{
		ID:        c.ID,
		Price:     c.Price,
		Name:      c.Name,
		Image:     image,
		BundleIDs: c.BundleIDs,
	}
}
