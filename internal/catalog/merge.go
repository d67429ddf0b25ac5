// internal/catalog/merge.go
package catalog

import (
	"slices"

	"fortinat-shop/internal/domain"
)

// Merge enriches the full list with membership in the new list and with the
// shop's offer for each item. Shop items sort first and new items before
// the rest within each group. The provider order is kept otherwise.
func Merge(all, newItems, shop []domain.Cosmetic) []domain.Cosmetic {
	newIDs := make(map[string]struct{}, len(newItems))
	for _, c := range newItems {
		newIDs[c.ID] = struct{}{}
	}
	offers := make(map[string]domain.Cosmetic, len(shop))
	for _, c := range shop {
		if _, seen := offers[c.ID]; !seen {
			offers[c.ID] = c
		}
	}

	merged := make([]domain.Cosmetic, 0, len(all))
	for _, c := range all {
		_, c.IsNew = newIDs[c.ID]
		if offer, ok := offers[c.ID]; ok {
			c.IsOnSale = true
			c.Price = offer.Price
			c.RegularPrice = offer.RegularPrice
			c.IsPromotional = offer.IsPromotional
			if len(offer.BundleIDs) > 0 {
				c.BundleIDs = offer.BundleIDs
			}
		} else {
			c.IsOnSale = false
			c.IsPromotional = false
		}
		merged = append(merged, c)
	}

	slices.SortStableFunc(merged, func(a, b domain.Cosmetic) int {
		return rank(a) - rank(b)
	})
	return merged
}

func rank(c domain.Cosmetic) int {
	r := 0
	if !c.IsOnSale {
		r += 2
	}
	if !c.IsNew {
		r++
	}
	return r
}
