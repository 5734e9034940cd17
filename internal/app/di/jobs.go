package di

import (
	"context"
	"errors"
	"log/slog"

	"sentiment_backend/internal/app/config"
	"sentiment_backend/internal/feature/sentiment/usecase"
	"sentiment_backend/internal/platform/scheduler"
)

// ErrUpstreamUnhealthy is returned by the health probe job.
var ErrUpstreamUnhealthy = errors.New("n8n health check failed")

const (
	JobHealthProbe = "n8n-health-probe"
	JobCacheWarm   = "cache-warm"
)

// HealthProbeJob checks n8n and updates the webhook-up gauge.
func HealthProbeJob(r *usecase.Resolver) scheduler.Job {
	return func(ctx context.Context) error {
		if !r.ProbeHealth(ctx) {
			return ErrUpstreamUnhealthy
		}
		return nil
	}
}

// CacheWarmJob resolves the dashboard of every catalog symbol so the cache is hot.
// 各銘柄は逐次に処理し、レート制限を食い潰さないようにします。
func CacheWarmJob(r *usecase.Resolver, cat *usecase.CatalogUsecase) scheduler.Job {
	return func(ctx context.Context) error {
		symbols := cat.Symbols(ctx)
		for _, sym := range symbols {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Dashboard(ctx, sym)
		}
		slog.Debug("cache warmed", "symbols", len(symbols))
		return nil
	}
}

// NewScheduler registers the background jobs. 無効化されている場合は nil を返します。
func NewScheduler(cfg config.SchedulerConfig, s *Sentiment) (*scheduler.Scheduler, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	sch := scheduler.New(0)
	if err := sch.AddJob(JobHealthProbe, cfg.HealthProbe, HealthProbeJob(s.Resolver)); err != nil {
		return nil, err
	}
	if err := sch.AddJob(JobCacheWarm, cfg.CacheWarm, CacheWarmJob(s.Resolver, s.Catalog)); err != nil {
		return nil, err
	}
	return sch, nil
}
