// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sentiment_backend/internal/app/config"
	"sentiment_backend/internal/feature/sentiment/adapters/analytics"
	"sentiment_backend/internal/feature/sentiment/adapters/catalog"
	"sentiment_backend/internal/feature/sentiment/adapters/fixtures"
	"sentiment_backend/internal/feature/sentiment/adapters/mockgen"
	sentimentn8n "sentiment_backend/internal/feature/sentiment/adapters/n8n"
	"sentiment_backend/internal/feature/sentiment/adapters/n8n/dto"
	"sentiment_backend/internal/feature/sentiment/usecase"
	"sentiment_backend/internal/platform/cache"
	webhook "sentiment_backend/internal/platform/externalapi/n8n"
	infrahttp "sentiment_backend/internal/platform/http"
	"sentiment_backend/internal/platform/kafka"
	"sentiment_backend/internal/shared/random"
	"sentiment_backend/internal/shared/ratelimiter"
)

// NewWebhookClient creates the n8n client with its HTTP transport and rate limiter.
func NewWebhookClient(cfg config.N8NConfig) *webhook.Client {
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientOptions{
		// context のタイムアウトが先に効くよう余裕を持たせる
		Timeout: max(cfg.Timeout, cfg.HealthTimeout) + 5*time.Second,
	})
	limiter := ratelimiter.NewRateLimiter("n8n", cfg.RatePerMinute, time.Minute)
	return webhook.NewClient(webhook.Config{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		HealthTimeout: cfg.HealthTimeout,
	}, httpClient, limiter)
}

// NewLiveSource wraps the client's GETs in the Redis cache. rdb が nil の場合キャッシュは素通りです。
func NewLiveSource(client *webhook.Client, rdb *redis.Client, ttl time.Duration) (*sentimentn8n.Source, *cache.CachingFetcher) {
	cached := cache.NewCachingFetcher(rdb, ttl, client, "n8n", cache.WithCacheable(dto.Cacheable))
	return sentimentn8n.NewSource(cached, client), cached
}

// NewFixtureStore loads the datasets from dir, or the embedded copy when dir is empty.
func NewFixtureStore(dir string) *fixtures.Store {
	return fixtures.New(fixtures.FS(dir))
}

// NewAnalyticsPublisher mirrors analytics events to Kafka when a producer is given.
func NewAnalyticsPublisher(live usecase.EventPublisher, producer *kafka.Producer, topic string) usecase.EventPublisher {
	if producer == nil {
		return live
	}
	return analytics.NewKafkaMirror(live, producer, topic)
}

// NewCatalog creates the catalog usecase. db が nil ならフィクスチャのみです。
func NewCatalog(ctx context.Context, db *gorm.DB, store *fixtures.Store) *usecase.CatalogUsecase {
	if db == nil {
		return usecase.NewCatalogUsecase(nil, store)
	}
	if err := catalog.Migrate(db.WithContext(ctx)); err != nil {
		slog.Warn("stock catalog migration failed, using fixtures", "error", err)
		return usecase.NewCatalogUsecase(nil, store)
	}
	return usecase.NewCatalogUsecase(catalog.NewStockRepository(db), store)
}

// Sentiment bundles the feature's wired components.
type Sentiment struct {
	Store    *fixtures.Store
	Cache    *cache.CachingFetcher
	Resolver *usecase.Resolver
	Catalog  *usecase.CatalogUsecase
}

// NewSentiment wires the sentiment feature. rdb, db, producer はいずれも nil を許容します。
func NewSentiment(ctx context.Context, cfg config.Config, rdb *redis.Client, db *gorm.DB, producer *kafka.Producer) *Sentiment {
	store := NewFixtureStore(cfg.FixtureDir)
	client := NewWebhookClient(cfg.N8N)
	live, cached := NewLiveSource(client, rdb, cfg.CacheTTL)
	gen := mockgen.New(store, random.New(), time.Now)

	opts := []usecase.Option{
		usecase.WithAnalytics(NewAnalyticsPublisher(live, producer, cfg.Kafka.AnalyticsTopic)),
	}
	if rdb != nil {
		opts = append(opts, usecase.WithCacheInvalidator(cached))
	}

	return &Sentiment{
		Store:    store,
		Cache:    cached,
		Resolver: usecase.NewResolver(live, store, gen, opts...),
		Catalog:  NewCatalog(ctx, db, store),
	}
}
