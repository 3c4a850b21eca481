package services

import (
	"strings"

	"github.com/zemouh/finagent/internal/models"
)

// Headline tone is scored against a fixed lexicon: each bullish word in
// a headline adds 1, each bearish word subtracts 1, and the total is
// normalized by the number of hits. Scores above 0.2 read as bullish,
// below -0.2 as bearish.
var (
	bullishWords = []string{
		"surge", "soar", "rally", "gain", "jump", "beat", "upgrade",
		"record", "growth", "profit", "bullish", "outperform", "strong",
		"rise", "boost", "expand",
	}
	bearishWords = []string{
		"plunge", "crash", "fall", "drop", "miss", "downgrade", "loss",
		"slump", "bearish", "underperform", "weak", "decline", "layoff",
		"cut", "warn", "fear", "recession",
	}
)

const sentimentThreshold = 0.2

// SentimentService scores news headlines without calling out anywhere
type SentimentService struct{}

// NewSentimentService creates a new SentimentService
func NewSentimentService() *SentimentService {
	return &SentimentService{}
}

// ScoreHeadline scores one headline in [-1, 1]
func (s *SentimentService) ScoreHeadline(headline string) models.HeadlineSentiment {
	text := strings.ToLower(headline)

	var score, hits float64
	for _, w := range bullishWords {
		if strings.Contains(text, w) {
			score++
			hits++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(text, w) {
			score--
			hits++
		}
	}
	if hits > 0 {
		score /= hits
	}

	return models.HeadlineSentiment{
		Headline: headline,
		Label:    labelFor(score),
		Score:    score,
	}
}

// Summarize aggregates headline sentiment over a news set for a symbol
func (s *SentimentService) Summarize(symbol string, articles []models.NewsArticle) *models.SentimentSummary {
	summary := &models.SentimentSummary{
		Symbol:    strings.ToUpper(symbol),
		NewsCount: len(articles),
	}

	var total float64
	for _, article := range articles {
		hs := s.ScoreHeadline(article.Headline)
		total += hs.Score
		switch hs.Label {
		case models.SentimentBullish:
			summary.BullishCount++
		case models.SentimentBearish:
			summary.BearishCount++
		default:
			summary.NeutralCount++
		}
		summary.Headlines = append(summary.Headlines, hs)
	}

	if len(articles) > 0 {
		summary.Score = total / float64(len(articles))
	}
	summary.Overall = labelFor(summary.Score)
	return summary
}

func labelFor(score float64) models.SentimentLabel {
	switch {
	case score > sentimentThreshold:
		return models.SentimentBullish
	case score < -sentimentThreshold:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}
