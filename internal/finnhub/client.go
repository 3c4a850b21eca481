package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zemouh/finagent/internal/models"
)

// Finnhub provides US market news, quotes and symbol search.
// The free tier is rate limited; callers should cache.
// https://finnhub.io/docs/api
const defaultBaseURL = "https://finnhub.io/api/v1"

// Client is an HTTP client for the Finnhub API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a new Finnhub client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CompanyNews fetches news for one symbol within [from, to]
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error) {
	symbol = strings.ToUpper(symbol)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var items []newsItem
	if err := c.doRequest(ctx, "company-news", params, &items); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(items))
	for _, item := range items {
		articles = append(articles, models.NewsArticle{
			ID:          item.ID,
			Headline:    item.Headline,
			Summary:     item.Summary,
			Source:      item.Source,
			URL:         item.URL,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
			Symbol:      symbol,
			Category:    item.Category,
			Related:     item.Related,
		})
	}
	return articles, nil
}

// MarketNews fetches general market news for a category
// (general, forex, crypto, merger)
func (c *Client) MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	if category == "" {
		category = "general"
	}

	params := url.Values{}
	params.Set("category", category)

	var items []newsItem
	if err := c.doRequest(ctx, "news", params, &items); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(items))
	for _, item := range items {
		articles = append(articles, models.NewsArticle{
			ID:          item.ID,
			Headline:    item.Headline,
			Summary:     item.Summary,
			Source:      item.Source,
			URL:         item.URL,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
			Category:    item.Category,
			Image:       item.Image,
		})
	}
	return articles, nil
}

// Quote fetches the real-time quote for a symbol
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)

	params := url.Values{}
	params.Set("symbol", symbol)

	var q quoteResponse
	if err := c.doRequest(ctx, "quote", params, &q); err != nil {
		return nil, err
	}

	return &models.Quote{
		Symbol:        symbol,
		Current:       q.Current,
		Change:        q.Change,
		PercentChange: q.PercentChange,
		High:          q.High,
		Low:           q.Low,
		Open:          q.Open,
		PreviousClose: q.PreviousClose,
	}, nil
}

// SearchSymbol searches tickers matching a free-text query
func (c *Client) SearchSymbol(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	params := url.Values{}
	params.Set("q", query)

	var sr searchResponse
	if err := c.doRequest(ctx, "search", params, &sr); err != nil {
		return nil, err
	}

	matches := make([]models.SymbolMatch, 0, len(sr.Result))
	for _, r := range sr.Result {
		matches = append(matches, models.SymbolMatch{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		})
	}
	return matches, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("token", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub %s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
