package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/services"
)

// NewsHandler handles market news, quote and sentiment endpoints
type NewsHandler struct {
	newsSvc      *services.NewsService
	sentimentSvc *services.SentimentService
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(newsSvc *services.NewsService, sentimentSvc *services.SentimentService) *NewsHandler {
	return &NewsHandler{
		newsSvc:      newsSvc,
		sentimentSvc: sentimentSvc,
	}
}

// MarketNews handles GET /news. With ?symbols=AAPL,MSFT it fans out to
// company news for each symbol and returns the merged set, newest
// first; otherwise it serves general market news for a category.
func (h *NewsHandler) MarketNews(c *gin.Context) {
	if symbols := splitSymbols(c.Query("symbols")); len(symbols) > 0 {
		daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "7"))

		articles, err := h.newsSvc.CompanyNewsMulti(c.Request.Context(), symbols, daysBack)
		if err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "upstream_error",
				Message: err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
		return
	}

	articles, err := h.newsSvc.MarketNews(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// CompanyNews handles GET /news/:symbol
func (h *NewsHandler) CompanyNews(c *gin.Context) {
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "7"))

	articles, err := h.newsSvc.CompanyNews(c.Request.Context(), c.Param("symbol"), daysBack)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

// Sentiment handles GET /news/:symbol/sentiment
func (h *NewsHandler) Sentiment(c *gin.Context) {
	symbol := c.Param("symbol")
	daysBack, _ := strconv.Atoi(c.DefaultQuery("days_back", "7"))

	articles, err := h.newsSvc.CompanyNews(c.Request.Context(), symbol, daysBack)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.sentimentSvc.Summarize(symbol, articles))
}

// Quote handles GET /quote/:symbol
func (h *NewsHandler) Quote(c *gin.Context) {
	quote, err := h.newsSvc.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// SearchSymbols handles GET /symbols
func (h *NewsHandler) SearchSymbols(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter q is required",
		})
		return
	}

	matches, err := h.newsSvc.SearchSymbol(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}
