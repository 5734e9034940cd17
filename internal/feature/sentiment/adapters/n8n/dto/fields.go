package dto

// stock-details endpoint field names.
const (
	AvgSentiment       = "avg_sentiment"
	TotalMentions      = "total_mentions"
	PositivePercentage = "positive_percentage"
	NegativePercentage = "negative_percentage"
	NeutralPercentage  = "neutral_percentage"
	TwitterMentions    = "twitter_mentions"
	RedditMentions     = "reddit_mentions"
	StocktwitsMentions = "stocktwits_mentions"
	SentimentTrend     = "sentiment_trend"
	VolumeTrend        = "volume_trend"
	LastUpdated        = "last_updated"
)

// mentions endpoint field names.
const (
	MentionID        = "id"
	MentionPlatform  = "platform"
	MentionContent   = "content"
	MentionLabel     = "sentiment_label"
	MentionScore     = "sentiment_score"
	MentionAuthor    = "author"
	MentionCreatedAt = "created_at"
	MentionMetadata  = "metadata"
)
