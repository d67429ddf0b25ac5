// internal/catalog/normalize.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"fortinat-shop/internal/domain"
)

// DefaultPrice is charged for items the shop does not price.
var DefaultPrice = decimal.NewFromInt(1200)

// apiCosmetic is a cosmetic as the provider serves it.
type apiCosmetic struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Type        *domain.Attribute `json:"type"`
	Rarity      *domain.Attribute `json:"rarity"`
	Images      *domain.Images    `json:"images"`
	Added       *time.Time        `json:"added"`
}

// apiShopEntry is one offer of the shop; it may sell several cosmetics at once.
type apiShopEntry struct {
	RegularPrice *decimal.Decimal `json:"regularPrice"`
	FinalPrice   *decimal.Decimal `json:"finalPrice"`
	BundleName   string           `json:"bundleName"`
	Bundle       *struct {
		Name string `json:"name"`
	} `json:"bundle"`
	Items   []apiCosmetic `json:"items"`
	BRItems []apiCosmetic `json:"brItems"`
}

func normalizeCosmetics(raw []apiCosmetic) []domain.Cosmetic {
	cosmetics := make([]domain.Cosmetic, 0, len(raw))
	for _, item := range raw {
		if item.ID == "" {
			continue
		}
		c := normalizeCosmetic(item)
		c.Price = DefaultPrice
		c.RegularPrice = DefaultPrice
		cosmetics = append(cosmetics, c)
	}
	return cosmetics
}

func normalizeCosmetic(item apiCosmetic) domain.Cosmetic {
	c := domain.Cosmetic{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Type:        domain.Attribute{Value: "unknown", DisplayValue: "Unknown"},
		Rarity:      domain.Attribute{Value: "common", DisplayValue: "Common"},
		Added:       time.Now().UTC(),
	}
	if c.Name == "" {
		c.Name = "Unknown item"
	}
	if c.Description == "" {
		c.Description = "No description available."
	}
	if item.Type != nil {
		c.Type = *item.Type
	}
	if item.Rarity != nil {
		c.Rarity = *item.Rarity
	}
	if item.Images != nil {
		c.Images = *item.Images
	}
	if item.Added != nil {
		c.Added = item.Added.UTC()
	}
	return c
}

func normalizeShopEntries(entries []apiShopEntry) []domain.Cosmetic {
	cosmetics := make([]domain.Cosmetic, 0, len(entries))
	for _, entry := range entries {
		items := entry.Items
		if len(items) == 0 {
			items = entry.BRItems
		}
		if len(items) == 0 || items[0].ID == "" {
			continue
		}

		c := normalizeCosmetic(items[0])
		switch {
		case entry.BundleName != "":
			c.Name = entry.BundleName
		case entry.Bundle != nil && entry.Bundle.Name != "":
			c.Name = entry.Bundle.Name
		}
		if len(items) > 1 {
			c.BundleIDs = make([]string, 0, len(items))
			for _, item := range items {
				c.BundleIDs = append(c.BundleIDs, item.ID)
			}
		}

		c.Price = DefaultPrice
		if entry.FinalPrice != nil && !entry.FinalPrice.IsZero() {
			c.Price = *entry.FinalPrice
			c.IsOnSale = true
		}
		c.RegularPrice = c.Price
		if entry.RegularPrice != nil && !entry.RegularPrice.IsZero() {
			c.RegularPrice = *entry.RegularPrice
		}
		c.IsPromotional = c.Price.LessThan(c.RegularPrice)
		cosmetics = append(cosmetics, c)
	}
	return cosmetics
}
