// internal/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fortinat-shop/internal/domain"
	"fortinat-shop/internal/util"
)

// DefaultBaseURL is the public catalog provider.
const DefaultBaseURL = "https://fortnite-api.com/v2"

// Source provides the three catalog lists the shop merges.
type Source interface {
	FetchAll(ctx context.Context) ([]domain.Cosmetic, error)
	FetchNew(ctx context.Context) ([]domain.Cosmetic, error)
	FetchShop(ctx context.Context) ([]domain.Cosmetic, error)
}

// Client talks to the catalog provider over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope is the provider's response wrapper.
type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// FetchAll returns every cosmetic the provider knows.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Cosmetic, error) {
	data, err := c.get(ctx, "/cosmetics/br")
	if err != nil {
		return nil, err
	}

	var raw []apiCosmetic
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode all cosmetics: %v", util.ErrCatalogUnavailable, err)
	}
	return normalizeCosmetics(raw), nil
}

// FetchNew returns recently added cosmetics, all marked new. The provider
// serves items either as a plain list or grouped by game mode under "br".
func (c *Client) FetchNew(ctx context.Context) ([]domain.Cosmetic, error) {
	data, err := c.get(ctx, "/cosmetics/new")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode new cosmetics: %v", util.ErrCatalogUnavailable, err)
	}

	var raw []apiCosmetic
	if err := json.Unmarshal(payload.Items, &raw); err != nil {
		var grouped struct {
			BR []apiCosmetic `json:"br"`
		}
		if err := json.Unmarshal(payload.Items, &grouped); err != nil {
			return nil, fmt.Errorf("%w: decode new cosmetics: %v", util.ErrCatalogUnavailable, err)
		}
		raw = grouped.BR
	}

	cosmetics := normalizeCosmetics(raw)
	for i := range cosmetics {
		cosmetics[i].IsNew = true
	}
	return cosmetics, nil
}

// FetchShop returns the current shop entries. Older provider versions split
// the shop into featured and daily sections.
func (c *Client) FetchShop(ctx context.Context) ([]domain.Cosmetic, error) {
	data, err := c.get(ctx, "/shop/br")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Featured *struct {
			Entries []apiShopEntry `json:"entries"`
		} `json:"featured"`
		Daily *struct {
			Entries []apiShopEntry `json:"entries"`
		} `json:"daily"`
		Entries []apiShopEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode shop: %v", util.ErrCatalogUnavailable, err)
	}

	var entries []apiShopEntry
	if payload.Featured != nil {
		entries = append(entries, payload.Featured.Entries...)
	}
	if payload.Daily != nil {
		entries = append(entries, payload.Daily.Entries...)
	}
	if len(entries) == 0 {
		entries = payload.Entries
	}
	return normalizeShopEntries(entries), nil
}

// get fetches path and returns the "data" member of the response.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", util.ErrCatalogUnavailable, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Catalog request finished", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: GET %s: unexpected status %d", util.ErrCatalogUnavailable, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: GET %s: decode response: %v", util.ErrCatalogUnavailable, path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fmt.Errorf("%w: GET %s: response has no data", util.ErrCatalogUnavailable, path)
	}
	return env.Data, nil
}
