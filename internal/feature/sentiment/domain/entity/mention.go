package entity

import "time"

// Platform is the social network a mention was collected from.
type Platform string

const (
	PlatformTwitter    Platform = "twitter"
	PlatformReddit     Platform = "reddit"
	PlatformStocktwits Platform = "stocktwits"
	PlatformUnknown    Platform = "unknown"
)

// ParsePlatform normalises a platform tag into the closed set.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformTwitter, PlatformReddit, PlatformStocktwits:
		return Platform(s)
	default:
		return PlatformUnknown
	}
}

// MentionMetrics is the per-platform engagement bag.
// Only the fields that make sense for the platform are set.
type MentionMetrics struct {
	Likes    *int `json:"likes,omitempty"`
	Retweets *int `json:"retweets,omitempty"`
	Upvotes  *int `json:"upvotes,omitempty"`
	Comments *int `json:"comments,omitempty"`
	Bullish  *int `json:"bullish,omitempty"`
	Bearish  *int `json:"bearish,omitempty"`
}

// Mention is a single social media item about a stock.
type Mention struct {
	ID             string         `json:"id"`
	Platform       Platform       `json:"platform"`
	Content        string         `json:"content"`
	Sentiment      Classification `json:"sentiment"`
	SentimentScore float64        `json:"sentimentScore"` // 0-10
	Author         string         `json:"author"`
	Timestamp      time.Time      `json:"timestamp"`
	Metadata       MentionMetrics `json:"metadata"`
}

// MentionFeed is a resolved list of mentions with the provenance of the whole list.
type MentionFeed struct {
	Symbol   string     `json:"symbol"`
	Mentions []Mention  `json:"mentions"`
	Source   Provenance `json:"source"`
}
