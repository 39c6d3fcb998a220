// Package spotify implements the catalog provider port against the
// Spotify Web API using the client-credentials grant.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/slipwaylabs/slipway/internal/core/domain"
)

const maxBodyBytes = 8 << 20

// Config configures the provider client.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

// Client talks to the provider's search endpoint with an automatically
// refreshed client-credentials token.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New builds a provider client. Token acquisition and refresh are
// handled by the oauth2 transport; the first request triggers the
// first token exchange.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	httpClient := cc.Client(context.Background())
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
	}
}

// searchPayload mirrors the provider response: one key per result kind
// ("tracks", "albums", "playlists"), each holding an item list.
type searchPayload map[string]struct {
	Items []struct {
		Name string `json:"name"`
		URI  string `json:"uri"`
	} `json:"items"`
}

// Search queries the provider and reduces the response to name/uri
// pairs. The US market is requested for better result coverage.
func (c *Client) Search(ctx context.Context, query string, kind domain.SearchType, limit int) (domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", string(kind))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("market", "US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return domain.SearchResult{}, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("failed to read search response: %w", err)
	}

	var payload searchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.SearchResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	// The provider keys the result section by the pluralized kind.
	section, ok := payload[string(kind)+"s"]
	if !ok {
		return domain.SearchResult{Results: []domain.Item{}}, nil
	}

	results := make([]domain.Item, 0, len(section.Items))
	for _, it := range section.Items {
		if it.Name == "" || it.URI == "" {
			continue
		}
		results = append(results, domain.Item{Name: it.Name, URI: it.URI})
	}

	return domain.SearchResult{Results: results, Total: len(results)}, nil
}
