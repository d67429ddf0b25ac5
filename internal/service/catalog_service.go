// internal/service/catalog_service.go
package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"fortinat-shop/internal/catalog"
	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/util"
)

const (
	DefaultPageSize = 24
	MaxPageSize     = 100
)

// CatalogService defines the interface for browsing the merged catalog.
type CatalogService interface {
	Search(ctx context.Context, filter domain.CosmeticFilter, page, pageSize int) ([]domain.Cosmetic, int, error)
	GetCosmetic(ctx context.Context, id string) (*domain.Cosmetic, error)
	Options(ctx context.Context) (*domain.CatalogOptions, error)
	Owned(ctx context.Context, inventory []string) ([]domain.Cosmetic, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	source catalog.Source
	logger *slog.Logger
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(source catalog.Source, logger *slog.Logger) CatalogService {
	return &catalogService{source: source, logger: logger}
}

// merged fetches the three provider lists in parallel and merges them.
func (s *catalogService) merged(ctx context.Context) ([]domain.Cosmetic, error) {
	var all, newItems, shop []domain.Cosmetic

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = s.source.FetchAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		newItems, err = s.source.FetchNew(gctx)
		return err
	})
	g.Go(func() (err error) {
		shop, err = s.source.FetchShop(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return catalog.Merge(all, newItems, shop), nil
}

// Search filters the catalog and returns the requested 1-based page with the
// number of matching items.
func (s *catalogService) Search(ctx context.Context, filter domain.CosmeticFilter, page, pageSize int) ([]domain.Cosmetic, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	cosmetics, err := s.merged(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("search catalog: %w", err)
	}

	matched := make([]domain.Cosmetic, 0, len(cosmetics))
	for _, c := range cosmetics {
		if filter.Matches(c) {
			matched = append(matched, c)
		}
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.Cosmetic{}, len(matched), nil
	}
	end := min(start+pageSize, len(matched))
	return matched[start:end], len(matched), nil
}

func (s *catalogService) GetCosmetic(ctx context.Context, id string) (*domain.Cosmetic, error) {
	cosmetics, err := s.merged(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cosmetic: %w", err)
	}
	for i := range cosmetics {
		if cosmetics[i].ID == id {
			return &cosmetics[i], nil
		}
	}
	return nil, fmt.Errorf("get cosmetic %s: %w", id, util.ErrNotFound)
}

// Options returns the distinct types and rarities sorted by label.
func (s *catalogService) Options(ctx context.Context) (*domain.CatalogOptions, error) {
	cosmetics, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog options: %w", err)
	}

	types := map[string]string{}
	rarities := map[string]string{}
	for _, c := range cosmetics {
		collectOption(types, c.Type)
		collectOption(rarities, c.Rarity)
	}
	return &domain.CatalogOptions{
		Types:    sortedOptions(types),
		Rarities: sortedOptions(rarities),
	}, nil
}

func collectOption(into map[string]string, attr domain.Attribute) {
	if attr.Value == "" {
		return
	}
	label := attr.DisplayValue
	if label == "" {
		label = attr.Value
	}
	into[attr.Value] = label
}

func sortedOptions(values map[string]string) []domain.CatalogOption {
	options := make([]domain.CatalogOption, 0, len(values))
	for value, label := range values {
		options = append(options, domain.CatalogOption{Value: value, Label: label})
	}
	slices.SortFunc(options, func(a, b domain.CatalogOption) int {
		return cmp.Or(cmp.Compare(a.Label, b.Label), cmp.Compare(a.Value, b.Value))
	})
	return options
}

// Owned returns the catalog entries of the given inventory in catalog order.
// Ids the catalog does not know are skipped.
func (s *catalogService) Owned(ctx context.Context, inventory []string) ([]domain.Cosmetic, error) {
	if len(inventory) == 0 {
		return []domain.Cosmetic{}, nil
	}
	cosmetics, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("owned cosmetics: %w", err)
	}

	owned := make([]domain.Cosmetic, 0, len(inventory))
	for _, c := range cosmetics {
		if slices.Contains(inventory, c.ID) {
			owned = append(owned, c)
		}
	}
	if missing := len(inventory) - len(owned); missing > 0 {
		s.logger.Debug("Inventory holds items unknown to the catalog", "count", missing)
	}
	return owned, nil
}
