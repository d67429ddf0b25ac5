// internal/api/handler/catalog.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fortinat-shop/internal/api/types"
	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/service"
	"fortinat-shop/internal/util"
)

// CatalogHandler handles catalog browsing and owned-item listings.
type CatalogHandler struct {
	responder
	catalog  service.CatalogService
	accounts service.AccountService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, accounts service.AccountService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		responder: responder{logger: logger},
		catalog:   catalog,
		accounts:  accounts,
	}
}

// ListCosmetics returns one page of the filtered catalog.
// GET /api/cosmetics?search=&type=&rarity=&from=&to=&new=&sale=&promo=&page=&pageSize=
func (h *CatalogHandler) ListCosmetics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := parseFilter(query)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	pageSize, err := strconv.Atoi(query.Get("pageSize"))
	if err != nil || pageSize <= 0 {
		pageSize = service.DefaultPageSize
	}
	pageSize = min(pageSize, service.MaxPageSize)

	cosmetics, total, err := h.catalog.Search(r.Context(), filter, page, pageSize)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewPageResponse(cosmetics, page, pageSize, total))
}

// GetCosmetic returns one catalog item with its current shop offer.
// GET /api/cosmetics/{id}
func (h *CatalogHandler) GetCosmetic(w http.ResponseWriter, r *http.Request) {
	cosmetic, err := h.catalog.GetCosmetic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, cosmetic)
}

// Options returns the filter values present in the catalog.
// GET /api/cosmetics/options
func (h *CatalogHandler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalog.Options(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, options)
}

// OwnedItems returns the catalog entries of a user's inventory.
// GET /api/users/{userID}/items
func (h *CatalogHandler) OwnedItems(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	owned, err := h.catalog.Owned(r.Context(), user.Inventory)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, owned)
}

// parseFilter reads catalog filters from the query string. Date-only bounds
// cover whole days.
func parseFilter(query url.Values) (domain.CosmeticFilter, error) {
	filter := domain.CosmeticFilter{
		Search: query.Get("search"),
		Type:   query.Get("type"),
		Rarity: query.Get("rarity"),
	}

	var err error
	if filter.AddedFrom, err = parseBound(query.Get("from"), false); err != nil {
		return filter, err
	}
	if filter.AddedTo, err = parseBound(query.Get("to"), true); err != nil {
		return filter, err
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"new", &filter.NewOnly},
		{"sale", &filter.OnSaleOnly},
		{"promo", &filter.PromotionalOnly},
	}
	for _, flag := range flags {
		raw := query.Get(flag.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: %s must be a boolean", util.ErrInvalidInput, flag.name)
		}
		*flag.dst = v
	}
	return filter, nil
}

func parseBound(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a date", util.ErrInvalidInput, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
