// Package n8n は n8n Webhook の応答をドメインエンティティに変換するライブデータソースです。
package n8n

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"sentiment_backend/internal/feature/sentiment/adapters/n8n/dto"
	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/feature/sentiment/usecase"
	webhook "sentiment_backend/internal/platform/externalapi/n8n"
)

// api ワークフローのエンドポイントキーと Webhook パス。
const (
	EndpointStockDetails = "stock-details"
	EndpointMentions     = "mentions"
	EndpointHealth       = "health"

	APIPath    = "api"
	RedditPath = "reddit-sentiment"

	defaultScore        = 75
	defaultMentionScore = 5
	defaultAuthor       = "Anonymous"
	defaultContent      = "No content available"
)

// Fetcher は Webhook への GET です。キャッシュデコレータもこれを実装します。
type Fetcher interface {
	Get(ctx context.Context, path string, params map[string]any) ([]byte, error)
}

// Client は GET 以外の Webhook 操作です。
type Client interface {
	Post(ctx context.Context, path string, payload any) error
	CheckHealth(ctx context.Context) bool
}

// Source implements usecase.LiveSource on top of the webhook client.
type Source struct {
	fetcher Fetcher
	client  Client
	now     func() time.Time
}

var _ usecase.LiveSource = (*Source)(nil)

// NewSource は Source を生成します。fetcher には通常キャッシュ付きクライアントを渡します。
func NewSource(fetcher Fetcher, client Client) *Source {
	return &Source{fetcher: fetcher, client: client, now: time.Now}
}

// Evicter はキャッシュ済みの応答を破棄できる Fetcher です。
type Evicter interface {
	Forget(ctx context.Context, path string, params map[string]any) error
}

func apiParams(endpoint string, params map[string]any) map[string]any {
	merged := map[string]any{"endpoint": endpoint}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

func (s *Source) request(ctx context.Context, endpoint string, params map[string]any) ([]byte, error) {
	return s.fetcher.Get(ctx, APIPath, apiParams(endpoint, params))
}

// forget は変換できなかった応答をキャッシュから外し、次の要求でライブ取得し直せるようにします。
func (s *Source) forget(ctx context.Context, path string, params map[string]any) {
	ev, ok := s.fetcher.(Evicter)
	if !ok {
		return
	}
	if err := ev.Forget(ctx, path, params); err != nil {
		slog.Warn("failed to evict rejected webhook response", "path", path, "error", err)
	}
}

func shapeErr(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", webhook.ErrShape, what)
	}
	return fmt.Errorf("%w: %s: %v", webhook.ErrShape, what, err)
}

// StockDetails は stock-details を取得し SentimentSnapshot に変換します。
// 外枠が使えない場合、または集計値が不整合な場合は ErrShape を返します。
func (s *Source) StockDetails(ctx context.Context, symbol string) (entity.SentimentSnapshot, error) {
	params := apiParams(EndpointStockDetails, map[string]any{"symbol": symbol})
	body, err := s.fetcher.Get(ctx, APIPath, params)
	if err != nil {
		return entity.SentimentSnapshot{}, err
	}
	snap, err := s.toSnapshot(body, symbol)
	if err != nil {
		s.forget(ctx, APIPath, params)
	}
	return snap, err
}

func (s *Source) toSnapshot(body []byte, symbol string) (entity.SentimentSnapshot, error) {
	raw, err := dto.DecodeEnvelope(body)
	if err != nil {
		return entity.SentimentSnapshot{}, shapeErr("stock-details", err)
	}
	f, err := dto.DecodeFields(raw)
	if err != nil {
		return entity.SentimentSnapshot{}, shapeErr("stock-details data", err)
	}

	score := defaultScore
	if avg, ok := f.Number(dto.AvgSentiment); ok {
		score = int(math.Round(math.Max(0, math.Min(100, avg*10))))
	}

	snap := entity.SentimentSnapshot{
		Symbol:             symbol,
		SentimentScore:     score,
		TotalMentions:      f.IntOr(dto.TotalMentions, 0),
		PositivePercentage: f.NumberOr(dto.PositivePercentage, 0),
		NegativePercentage: f.NumberOr(dto.NegativePercentage, 0),
		NeutralPercentage:  f.NumberOr(dto.NeutralPercentage, 0),
		TwitterMentions:    f.IntOr(dto.TwitterMentions, 0),
		RedditMentions:     f.IntOr(dto.RedditMentions, 0),
		StocktwitsMentions: f.IntOr(dto.StocktwitsMentions, 0),
		SentimentTrend:     f.NumberOr(dto.SentimentTrend, 0),
		VolumeTrend:        f.NumberOr(dto.VolumeTrend, 0),
		LastUpdated:        f.Time(dto.LastUpdated, s.now()),
	}
	if !snap.Valid() {
		return entity.SentimentSnapshot{}, shapeErr("stock-details violates percentage or mention totals", nil)
	}
	return snap, nil
}

// Mentions は mentions を取得します。data が配列でない場合は ErrShape です。
// 空配列は正常な結果として扱います。
func (s *Source) Mentions(ctx context.Context, symbol string, limit int) ([]entity.Mention, error) {
	params := apiParams(EndpointMentions, map[string]any{"symbol": symbol, "limit": limit})
	body, err := s.fetcher.Get(ctx, APIPath, params)
	if err != nil {
		return nil, err
	}
	ms, err := s.toMentions(body, limit)
	if err != nil {
		s.forget(ctx, APIPath, params)
	}
	return ms, err
}

func (s *Source) toMentions(body []byte, limit int) ([]entity.Mention, error) {
	raw, err := dto.DecodeEnvelope(body)
	if err != nil {
		return nil, shapeErr("mentions", err)
	}
	items, err := dto.DecodeList(raw)
	if err != nil {
		return nil, shapeErr("mentions data is not an array of records", err)
	}

	now := s.now()
	out := make([]entity.Mention, 0, len(items))
	for _, f := range items {
		out = append(out, toMention(f, now))
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func toMention(f dto.Fields, now time.Time) entity.Mention {
	m := entity.Mention{
		ID:             f.StringOr(dto.MentionID, ""),
		Platform:       entity.ParsePlatform(f.StringOr(dto.MentionPlatform, "")),
		Content:        f.StringOr(dto.MentionContent, defaultContent),
		Sentiment:      entity.ClassificationFromLabel(f.StringOr(dto.MentionLabel, "")),
		SentimentScore: math.Max(0, math.Min(10, f.NumberOr(dto.MentionScore, defaultMentionScore))),
		Author:         f.StringOr(dto.MentionAuthor, defaultAuthor),
		Timestamp:      f.Time(dto.MentionCreatedAt, now),
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if md, ok := f.Object(dto.MentionMetadata); ok {
		m.Metadata = entity.MentionMetrics{
			Likes:    md.IntPtr("likes"),
			Retweets: md.IntPtr("retweets"),
			Upvotes:  md.IntPtr("upvotes"),
			Comments: md.IntPtr("comments"),
			Bullish:  md.IntPtr("bullish"),
			Bearish:  md.IntPtr("bearish"),
		}
	}
	return m
}

// RedditSentiment は reddit-sentiment ワークフローを呼び出します。
// 応答はスナップショット形式で、{success, data} で包まれていても受け付けます。
func (s *Source) RedditSentiment(ctx context.Context, stock, subreddit string) (entity.RedditSentimentSnapshot, error) {
	params := map[string]any{"stock": stock, "subreddit": subreddit}
	body, err := s.fetcher.Get(ctx, RedditPath, params)
	if err != nil {
		return entity.RedditSentimentSnapshot{}, err
	}
	snap, err := s.toReddit(body, stock, subreddit)
	if err != nil {
		s.forget(ctx, RedditPath, params)
	}
	return snap, err
}

func (s *Source) toReddit(body []byte, stock, subreddit string) (entity.RedditSentimentSnapshot, error) {
	f, err := dto.DecodeFields(body)
	if err != nil {
		return entity.RedditSentimentSnapshot{}, shapeErr("reddit-sentiment", err)
	}
	if _, wrapped := f["success"]; wrapped {
		raw, err := dto.DecodeEnvelope(body)
		if err != nil {
			return entity.RedditSentimentSnapshot{}, shapeErr("reddit-sentiment", err)
		}
		if f, err = dto.DecodeFields(raw); err != nil {
			return entity.RedditSentimentSnapshot{}, shapeErr("reddit-sentiment data", err)
		}
	}
	return toRedditSnapshot(f, stock, subreddit, s.now())
}

func toRedditSnapshot(f dto.Fields, stock, subreddit string, now time.Time) (entity.RedditSentimentSnapshot, error) {
	posts, ok := f.List("topPosts")
	if !ok {
		return entity.RedditSentimentSnapshot{}, shapeErr("reddit-sentiment has no topPosts array", nil)
	}

	snap := entity.RedditSentimentSnapshot{
		Stock:              f.StringOr("stock", stock),
		Platform:           f.StringOr("platform", "reddit"),
		Timestamp:          f.Time("timestamp", now),
		TotalMentions:      f.IntOr("totalMentions", 0),
		SentimentScore:     f.IntOr("sentimentScore", defaultScore),
		PositivePercentage: f.NumberOr("positivePercentage", 0),
		NegativePercentage: f.NumberOr("negativePercentage", 0),
		NeutralPercentage:  f.NumberOr("neutralPercentage", 0),
		TopPosts:           make([]entity.RedditPost, 0, len(posts)),
	}
	if !entity.PercentagesValid(snap.PositivePercentage, snap.NegativePercentage, snap.NeutralPercentage) {
		return entity.RedditSentimentSnapshot{}, shapeErr("reddit-sentiment percentages do not sum to 100", nil)
	}

	var upvotes, comments int
	for i, p := range posts {
		post := entity.RedditPost{
			ID:             p.StringOr("id", fmt.Sprintf("post_%d", i+1)),
			Title:          p.StringOr("title", ""),
			Content:        p.StringOr("content", ""),
			Author:         p.StringOr("author", defaultAuthor),
			Upvotes:        p.IntOr("upvotes", 0),
			Comments:       p.IntOr("comments", 0),
			Sentiment:      entity.Classification(p.StringOr("sentiment", string(entity.Neutral))),
			SentimentScore: p.NumberOr("sentimentScore", 50),
			URL:            p.StringOr("url", ""),
			Subreddit:      p.StringOr("subreddit", subreddit),
		}
		if !post.Sentiment.Valid() {
			post.Sentiment = entity.Neutral
		}
		upvotes += post.Upvotes
		comments += post.Comments
		snap.TopPosts = append(snap.TopPosts, post)
	}

	md, _ := f.Object("metadata")
	snap.Metadata = entity.RedditMetadata{
		Subreddit:     md.StringOr("subreddit", subreddit),
		TotalUpvotes:  md.IntOr("totalUpvotes", upvotes),
		TotalComments: md.IntOr("totalComments", comments),
		ProcessedAt:   md.Time("processedAt", now),
	}
	return snap, nil
}

// ServiceStatus は api?endpoint=health の結果を返します。失敗しても必ず値を返します。
func (s *Source) ServiceStatus(ctx context.Context) entity.ServiceStatus {
	now := s.now()
	body, err := s.request(ctx, EndpointHealth, nil)
	if err != nil {
		return entity.ServiceStatus{
			Status:    entity.ServiceUnhealthy,
			Timestamp: now,
			Services:  map[string]any{},
			Error:     describe(err),
		}
	}

	raw, err := dto.DecodeEnvelope(body)
	if err != nil {
		return entity.ServiceStatus{Status: entity.ServiceUnknown, Timestamp: now, Services: map[string]any{}}
	}
	f, err := dto.DecodeFields(raw)
	if err != nil {
		return entity.ServiceStatus{Status: entity.ServiceUnknown, Timestamp: now, Services: map[string]any{}}
	}

	st := entity.ServiceUnhealthy
	if f.StringOr("status", "") == string(entity.ServiceHealthy) {
		st = entity.ServiceHealthy
	}
	services := map[string]any{}
	if svc, ok := f.Object("services"); ok {
		services = map[string]any(svc)
	}
	return entity.ServiceStatus{Status: st, Timestamp: f.Time("timestamp", now), Services: services}
}

func describe(err error) string {
	var he *webhook.HTTPError
	switch {
	case errors.Is(err, webhook.ErrTimeout):
		return "Request timeout"
	case errors.As(err, &he):
		return fmt.Sprintf("HTTP %d: %s", he.StatusCode, he.Status)
	default:
		return "Network error"
	}
}

// CheckHealth は /healthz を確認します。
func (s *Source) CheckHealth(ctx context.Context) bool {
	return s.client.CheckHealth(ctx)
}

// Publish は任意の JSON を Webhook パスに送信します。
func (s *Source) Publish(ctx context.Context, path string, payload any) error {
	return s.client.Post(ctx, path, payload)
}
