package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zemouh/finagent/internal/cache"
	"github.com/zemouh/finagent/internal/models"
)

const companyNewsFanout = 4

// NewsAPI is the market data port, satisfied by the Finnhub client
type NewsAPI interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error)
	MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error)
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	SearchSymbol(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// NewsService serves market news and quotes through a TTL cache
type NewsService struct {
	api   NewsAPI
	cache *cache.MemoryCache
}

// NewNewsService creates a new NewsService
func NewNewsService(api NewsAPI, memCache *cache.MemoryCache) *NewsService {
	return &NewsService{
		api:   api,
		cache: memCache,
	}
}

// CompanyNews returns recent news for one symbol, cached per (symbol, daysBack)
func (s *NewsService) CompanyNews(ctx context.Context, symbol string, daysBack int) ([]models.NewsArticle, error) {
	if daysBack <= 0 {
		daysBack = 7
	}
	symbol = strings.ToUpper(symbol)

	key := fmt.Sprintf("company:%s:%d", symbol, daysBack)
	if articles, ok := s.cache.GetNews(key); ok {
		return articles, nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -daysBack)
	articles, err := s.api.CompanyNews(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company news: %w", err)
	}

	s.cache.SetNews(key, articles)
	return articles, nil
}

// CompanyNewsMulti fetches news for several symbols concurrently and
// returns the merged result, newest first. A failing symbol fails the
// whole call; in-flight fetches are cancelled.
func (s *NewsService) CompanyNewsMulti(ctx context.Context, symbols []string, daysBack int) ([]models.NewsArticle, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(companyNewsFanout)

	var mu sync.Mutex
	var merged []models.NewsArticle

	for _, symbol := range symbols {
		g.Go(func() error {
			articles, err := s.CompanyNews(gctx, symbol, daysBack)
			if err != nil {
				return err
			}
			mu.Lock()
			merged = append(merged, articles...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	return merged, nil
}

// MarketNews returns general market news for a category, cached
func (s *NewsService) MarketNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	if category == "" {
		category = "general"
	}

	key := "market:" + category
	if articles, ok := s.cache.GetNews(key); ok {
		return articles, nil
	}

	articles, err := s.api.MarketNews(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market news: %w", err)
	}

	s.cache.SetNews(key, articles)
	return articles, nil
}

// Quote returns the current quote for a symbol, cached
func (s *NewsService) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)

	if quote, ok := s.cache.GetQuote(symbol); ok {
		return quote, nil
	}

	quote, err := s.api.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	s.cache.SetQuote(symbol, quote)
	return quote, nil
}

// SearchSymbol searches tickers matching a query. Results are not
// cached; queries rarely repeat.
func (s *NewsService) SearchSymbol(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	matches, err := s.api.SearchSymbol(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}
	if len(matches) == 0 {
		log.Debugf("symbol search for %q returned no matches", query)
	}
	return matches, nil
}
