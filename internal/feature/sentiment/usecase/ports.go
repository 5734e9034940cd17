package usecase

import (
	"context"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
)

// LiveSource は n8n Webhook を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type LiveSource interface {
	StockDetails(ctx context.Context, symbol string) (entity.SentimentSnapshot, error)
	Mentions(ctx context.Context, symbol string, limit int) ([]entity.Mention, error)
	RedditSentiment(ctx context.Context, stock, subreddit string) (entity.RedditSentimentSnapshot, error)
	ServiceStatus(ctx context.Context) entity.ServiceStatus
	CheckHealth(ctx context.Context) bool
	Publish(ctx context.Context, path string, payload any) error
}

// FixtureStore は同梱データセットへの読み取り専用アクセスです。
type FixtureStore interface {
	StockOptions() []entity.StockOption
	StockBySymbol(symbol string) (entity.StockOption, bool)
	FallbackSentiment(symbol string) entity.SentimentSnapshot
	FallbackMentions() []entity.Mention
}

// Generator はフィクスチャに無いデータを合成します。失敗しません。
type Generator interface {
	Generate(stock, subreddit string) entity.RedditSentimentSnapshot
	GenerateMentions(symbol string, limit int) []entity.Mention
}

// EventPublisher は解析イベントの送信先です。
type EventPublisher interface {
	Publish(ctx context.Context, path string, payload any) error
}

// CacheInvalidator は銘柄単位で Webhook 応答キャッシュを破棄します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, subject string) error
}

// CatalogRepository は銘柄カタログの永続化層です。
type CatalogRepository interface {
	List(ctx context.Context) ([]entity.StockOption, error)
	FindBySymbol(ctx context.Context, symbol string) (entity.StockOption, error)
}
