package models

import (
	"time"
)

// NewsArticle represents one market or company news item
type NewsArticle struct {
	ID          int64     `json:"id"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Symbol      string    `json:"symbol,omitempty"`
	Category    string    `json:"category,omitempty"`
	Related     string    `json:"related,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// Quote represents a real-time stock quote
type Quote struct {
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
}

// SymbolMatch represents one result of a ticker symbol search
type SymbolMatch struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// SentimentLabel classifies the tone of a headline or a news set
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "Bullish"
	SentimentNeutral SentimentLabel = "Neutral"
	SentimentBearish SentimentLabel = "Bearish"
)

// HeadlineSentiment is the scored sentiment of a single article
type HeadlineSentiment struct {
	Headline string         `json:"headline"`
	Label    SentimentLabel `json:"label"`
	Score    float64        `json:"score"` // -1 to 1
}

// SentimentSummary aggregates headline sentiment for one symbol
type SentimentSummary struct {
	Symbol       string              `json:"symbol"`
	Overall      SentimentLabel      `json:"overall"`
	Score        float64             `json:"score"`
	NewsCount    int                 `json:"news_count"`
	BullishCount int                 `json:"bullish_count"`
	BearishCount int                 `json:"bearish_count"`
	NeutralCount int                 `json:"neutral_count"`
	Headlines    []HeadlineSentiment `json:"headlines,omitempty"`
}
