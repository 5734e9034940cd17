package entity

import "time"

// RedditPost is one post inside a RedditSentimentSnapshot.
type RedditPost struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	Author         string         `json:"author"`
	Upvotes        int            `json:"upvotes"`
	Comments       int            `json:"comments"`
	Sentiment      Classification `json:"sentiment"`
	SentimentScore float64        `json:"sentimentScore"`
	URL            string         `json:"url"`
	Subreddit      string         `json:"subreddit,omitempty"`
}

// RedditMetadata describes how a RedditSentimentSnapshot was produced.
type RedditMetadata struct {
	Subreddit     string     `json:"subreddit"`
	TotalUpvotes  int        `json:"totalUpvotes"`
	TotalComments int        `json:"totalComments"`
	ProcessedAt   time.Time  `json:"processedAt"`
	Source        Provenance `json:"source,omitempty"`
	// UpstreamHealthy is only set on fallback results of a live request.
	UpstreamHealthy *bool `json:"upstreamHealthy,omitempty"`
}

// RedditSentimentSnapshot is the sentiment of one stock inside one subreddit.
type RedditSentimentSnapshot struct {
	Stock              string         `json:"stock"`
	Platform           string         `json:"platform"`
	Timestamp          time.Time      `json:"timestamp"`
	TotalMentions      int            `json:"totalMentions"`
	SentimentScore     int            `json:"sentimentScore"`
	PositivePercentage float64        `json:"positivePercentage"`
	NegativePercentage float64        `json:"negativePercentage"`
	NeutralPercentage  float64        `json:"neutralPercentage"`
	TopPosts           []RedditPost   `json:"topPosts"`
	Metadata           RedditMetadata `json:"metadata"`
}

// Clone returns a deep copy so callers can annotate it without touching the source.
func (s RedditSentimentSnapshot) Clone() RedditSentimentSnapshot {
	out := s
	out.TopPosts = append([]RedditPost(nil), s.TopPosts...)
	if s.Metadata.UpstreamHealthy != nil {
		v := *s.Metadata.UpstreamHealthy
		out.Metadata.UpstreamHealthy = &v
	}
	return out
}

// Refreshed returns a copy whose timestamps are set to now.
func (s RedditSentimentSnapshot) Refreshed(now time.Time) RedditSentimentSnapshot {
	out := s.Clone()
	out.Timestamp = now
	out.Metadata.ProcessedAt = now
	return out
}
