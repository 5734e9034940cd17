package entity

import (
	"math"
	"time"
)

// PercentageTolerance is the rounding slack allowed around 100 for the three buckets.
const PercentageTolerance = 1.0

// SentimentSnapshot holds the aggregate sentiment metrics for one symbol.
type SentimentSnapshot struct {
	Symbol             string    `json:"symbol"`
	SentimentScore     int       `json:"sentimentScore"` // 0-100
	TotalMentions      int       `json:"totalMentions"`
	PositivePercentage float64   `json:"positivePercentage"`
	NegativePercentage float64   `json:"negativePercentage"`
	NeutralPercentage  float64   `json:"neutralPercentage"`
	TwitterMentions    int       `json:"twitterMentions"`
	RedditMentions     int       `json:"redditMentions"`
	StocktwitsMentions int       `json:"stocktwitsMentions"`
	SentimentTrend     float64   `json:"sentimentTrend"`
	VolumeTrend        float64   `json:"volumeTrend"`
	LastUpdated        time.Time `json:"lastUpdated"`
	IsFallback         bool      `json:"isFallback"`
}

// Provenance returns ProvenanceLive for authoritative data and ProvenanceFallback otherwise.
func (s SentimentSnapshot) Provenance() Provenance {
	if s.IsFallback {
		return ProvenanceFallback
	}
	return ProvenanceLive
}

// PercentagesValid reports whether the buckets are non-negative and sum to 100 ± PercentageTolerance.
func PercentagesValid(positive, negative, neutral float64) bool {
	if positive < 0 || negative < 0 || neutral < 0 {
		return false
	}
	return math.Abs(positive+negative+neutral-100) <= PercentageTolerance
}

// Valid checks the data-model invariants of the snapshot.
func (s SentimentSnapshot) Valid() bool {
	if !PercentagesValid(s.PositivePercentage, s.NegativePercentage, s.NeutralPercentage) {
		return false
	}
	if s.TwitterMentions < 0 || s.RedditMentions < 0 || s.StocktwitsMentions < 0 {
		return false
	}
	return s.TwitterMentions+s.RedditMentions+s.StocktwitsMentions <= s.TotalMentions
}
