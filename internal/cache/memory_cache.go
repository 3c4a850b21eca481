package cache

import (
	"sync"
	"time"

	"github.com/zemouh/finagent/internal/models"
)

// MemoryCache provides an in-memory TTL cache for news and quotes
type MemoryCache struct {
	news    map[string]newsEntry
	quotes  map[string]quoteEntry
	newsMu  sync.RWMutex
	quoteMu sync.RWMutex
	ttl     time.Duration
}

type newsEntry struct {
	articles  []models.NewsArticle
	fetchedAt time.Time
}

type quoteEntry struct {
	quote     *models.Quote
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		news:   make(map[string]newsEntry),
		quotes: make(map[string]quoteEntry),
		ttl:    ttl,
	}
}

// GetNews retrieves cached articles for a key if fresh
func (c *MemoryCache) GetNews(key string) ([]models.NewsArticle, bool) {
	c.newsMu.RLock()
	defer c.newsMu.RUnlock()

	entry, exists := c.news[key]
	if !exists {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.articles, true
}

// SetNews caches articles under a key
func (c *MemoryCache) SetNews(key string, articles []models.NewsArticle) {
	c.newsMu.Lock()
	defer c.newsMu.Unlock()

	c.news[key] = newsEntry{
		articles:  articles,
		fetchedAt: time.Now(),
	}
}

// GetQuote retrieves a cached quote if fresh
func (c *MemoryCache) GetQuote(symbol string) (*models.Quote, bool) {
	c.quoteMu.RLock()
	defer c.quoteMu.RUnlock()

	entry, exists := c.quotes[symbol]
	if !exists {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.quote, true
}

// SetQuote caches a quote
func (c *MemoryCache) SetQuote(symbol string, quote *models.Quote) {
	c.quoteMu.Lock()
	defer c.quoteMu.Unlock()

	c.quotes[symbol] = quoteEntry{
		quote:     quote,
		fetchedAt: time.Now(),
	}
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.newsMu.Lock()
	c.news = make(map[string]newsEntry)
	c.newsMu.Unlock()

	c.quoteMu.Lock()
	c.quotes = make(map[string]quoteEntry)
	c.quoteMu.Unlock()
}
