// Package usecase はセンチメントデータ取得のフォールバック方針を実装します。
//
// 各リクエストは ライブ(n8n) → フィクスチャ → 生成 の順に試行され、
// どの経路でも描画可能なエンティティと出所(provenance)を返します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/platform/metrics"
	"sentiment_backend/internal/shared/random"
)

// Analytics webhook paths.
const (
	AnalyticsRequestPath  = "analytics/reddit-request"
	AnalyticsFallbackPath = "analytics/fallback-usage"

	analyticsSource = "reddit-details-page"
	fallbackReason  = "n8n-unavailable"

	defaultPublishTimeout = 10 * time.Second
)

const (
	kindSentiment = "sentiment"
	kindMentions  = "mentions"
	kindReddit    = "reddit"
)

// RedditQuery is the input of ResolveReddit.
type RedditQuery struct {
	Stock       string
	Subreddit   string
	ForceStatic bool
	UserAgent   string
}

// Resolver はリクエスト種別ごとのフォールバックラダーを実行します。
// 要求間で共有する可変状態は持たず、並行に呼び出せます。
type Resolver struct {
	live        LiveSource
	store       FixtureStore
	gen         Generator
	analytics   EventPublisher
	invalidator CacheInvalidator
	rnd         random.Source
	now         func() time.Time

	publishTimeout time.Duration
	// inflight は切り離された解析送信を追跡します。待つのは Drain のみです。
	inflight sync.WaitGroup
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAnalytics は解析イベントの送信先を差し替えます。既定は live です。
func WithAnalytics(p EventPublisher) Option {
	return func(r *Resolver) { r.analytics = p }
}

// WithCacheInvalidator はダッシュボード更新時のキャッシュ破棄を有効にします。
func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(r *Resolver) { r.invalidator = c }
}

// WithRandom はフォールバック言及の時刻ゆらぎに使う乱数源を差し替えます。
func WithRandom(rnd random.Source) Option {
	return func(r *Resolver) { r.rnd = rnd }
}

// WithClock は時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithPublishTimeout は切り離された解析送信の上限時間を設定します。
func WithPublishTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.publishTimeout = d }
}

// NewResolver は Resolver を生成します。
func NewResolver(live LiveSource, store FixtureStore, gen Generator, opts ...Option) *Resolver {
	r := &Resolver{
		live:           live,
		store:          store,
		gen:            gen,
		analytics:      live,
		rnd:            random.New(),
		now:            time.Now,
		publishTimeout: defaultPublishTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveSentiment は銘柄の集計センチメントを返します。
// ライブ取得に失敗した場合はフィクスチャのフォールバック表（表自体が読めなければ組み込み値）を返します。
func (r *Resolver) ResolveSentiment(ctx context.Context, symbol string) entity.SentimentSnapshot {
	symbol = NormalizeSymbol(symbol)

	snap, err := r.live.StockDetails(ctx, symbol)
	if err == nil {
		snap.Symbol = symbol
		snap.IsFallback = false
		metrics.RecordResolution(kindSentiment, string(entity.ProvenanceLive))
		return snap
	}

	slog.Warn("using fallback sentiment", "symbol", symbol, "error", err)
	snap = r.store.FallbackSentiment(symbol)
	snap.IsFallback = true
	metrics.RecordResolution(kindSentiment, string(entity.ProvenanceFallback))
	return snap
}

// ResolveMentions は銘柄の言及リストを返します。
// ライブ取得に失敗した場合は固定リスト（時刻は直近30分にばらつかせる）、それも無ければ生成します。
func (r *Resolver) ResolveMentions(ctx context.Context, symbol string, limit int) entity.MentionFeed {
	symbol = NormalizeSymbol(symbol)
	limit = NormalizeLimit(limit)

	ms, err := r.live.Mentions(ctx, symbol, limit)
	if err == nil {
		if ms == nil {
			ms = []entity.Mention{}
		}
		metrics.RecordResolution(kindMentions, string(entity.ProvenanceLive))
		return entity.MentionFeed{Symbol: symbol, Mentions: ms, Source: entity.ProvenanceLive}
	}
	slog.Warn("using fallback mentions", "symbol", symbol, "error", err)

	if fixed := r.store.FallbackMentions(); len(fixed) > 0 {
		now := r.now()
		for i := range fixed {
			fixed[i].Timestamp = jitter(now, r.rnd)
		}
		if len(fixed) > limit {
			fixed = fixed[:limit]
		}
		metrics.RecordResolution(kindMentions, string(entity.ProvenanceStatic))
		return entity.MentionFeed{Symbol: symbol, Mentions: fixed, Source: entity.ProvenanceStatic}
	}

	metrics.RecordResolution(kindMentions, string(entity.ProvenanceFallback))
	return entity.MentionFeed{
		Symbol:   symbol,
		Mentions: r.gen.GenerateMentions(symbol, limit),
		Source:   entity.ProvenanceFallback,
	}
}

// ResolveReddit は (stock, subreddit) の Reddit センチメントを返します。
//
// ForceStatic の場合はネットワークに触れず、結果は常に static になります。
// ライブ失敗時はヘルスチェック結果を metadata.upstreamHealthy に載せて生成結果を返します。
func (r *Resolver) ResolveReddit(ctx context.Context, q RedditQuery) entity.RedditSentimentSnapshot {
	stock := NormalizeSymbol(q.Stock)
	subreddit := NormalizeSubreddit(q.Subreddit)

	if q.ForceStatic {
		snap := r.gen.Generate(stock, subreddit)
		snap.Metadata.Source = entity.ProvenanceStatic
		metrics.RecordResolution(kindReddit, string(entity.ProvenanceStatic))
		return snap
	}

	snap, err := r.live.RedditSentiment(ctx, stock, subreddit)
	if err == nil {
		snap.Metadata.Source = entity.ProvenanceLive
		snap.Metadata.UpstreamHealthy = nil
		metrics.RecordResolution(kindReddit, string(entity.ProvenanceLive))
		r.publishDetached(ctx, AnalyticsRequestPath, map[string]any{
			"stock":     stock,
			"subreddit": subreddit,
			"timestamp": r.now().UTC().Format(time.RFC3339Nano),
			"userAgent": q.UserAgent,
			"source":    analyticsSource,
		})
		return snap
	}

	// ヘルスチェックは状態報告のためだけに行い、再試行には使わない
	healthy := r.live.CheckHealth(ctx)
	metrics.RecordHealth(healthy)
	slog.Warn("using fallback reddit sentiment", "stock", stock, "subreddit", subreddit, "n8nHealthy", healthy, "error", err)

	snap = r.gen.Generate(stock, subreddit)
	snap.Metadata.UpstreamHealthy = &healthy
	metrics.RecordResolution(kindReddit, string(snap.Metadata.Source))
	r.publishDetached(ctx, AnalyticsFallbackPath, map[string]any{
		"stock":      stock,
		"subreddit":  subreddit,
		"reason":     fallbackReason,
		"timestamp":  r.now().UTC().Format(time.RFC3339Nano),
		"n8nHealthy": healthy,
	})
	return snap
}

// Publish は任意のペイロードを Webhook パスへ送信します。
// パスの誤りのみエラーとして返し、送信失敗は false に変換します。
func (r *Resolver) Publish(ctx context.Context, path string, payload any) (bool, error) {
	p, err := NormalizeWebhookPath(path)
	if err != nil {
		return false, err
	}
	if err := r.live.Publish(ctx, p, payload); err != nil {
		slog.Warn("webhook publish failed", "path", p, "error", err)
		return false, nil
	}
	return true, nil
}

// Status は n8n のサービス状態を返します。
func (r *Resolver) Status(ctx context.Context) entity.ServiceStatus {
	st := r.live.ServiceStatus(ctx)
	if st.Timestamp.IsZero() {
		st.Timestamp = r.now()
	}
	if st.Services == nil {
		st.Services = map[string]any{}
	}
	return st
}

// ProbeHealth は /healthz を確認し、ゲージを更新します。
func (r *Resolver) ProbeHealth(ctx context.Context) bool {
	healthy := r.live.CheckHealth(ctx)
	metrics.RecordHealth(healthy)
	return healthy
}

// Dashboard は集計・言及・サービス状態を並行に取得します。
// 各取得は互いに独立で、それぞれのフォールバックは逐次に実行されます。
func (r *Resolver) Dashboard(ctx context.Context, symbol string) entity.Dashboard {
	symbol = NormalizeSymbol(symbol)

	var (
		d  entity.Dashboard
		wg sync.WaitGroup
	)
	wg.Go(func() { d.Sentiment = r.ResolveSentiment(ctx, symbol) })
	wg.Go(func() { d.Mentions = r.ResolveMentions(ctx, symbol, DashboardMentionLimit) })
	wg.Go(func() { d.Status = r.Status(ctx) })
	wg.Wait()
	return d
}

// RefreshDashboard は銘柄のキャッシュを破棄してから Dashboard を取得し直します。
func (r *Resolver) RefreshDashboard(ctx context.Context, symbol string) entity.Dashboard {
	symbol = NormalizeSymbol(symbol)
	if r.invalidator != nil {
		if err := r.invalidator.Invalidate(ctx, symbol); err != nil {
			slog.Warn("cache invalidation failed", "symbol", symbol, "error", err)
		}
	}
	return r.Dashboard(ctx, symbol)
}

// Drain は切り離された解析送信の完了を待ちます。シャットダウンとテスト用です。
func (r *Resolver) Drain() {
	r.inflight.Wait()
}

// publishDetached は応答を待たずに解析イベントを送信します。失敗はログのみです。
func (r *Resolver) publishDetached(ctx context.Context, path string, payload map[string]any) {
	if r.analytics == nil {
		return
	}
	base := context.WithoutCancel(ctx)
	r.inflight.Go(func() {
		ctx, cancel := context.WithTimeout(base, r.publishTimeout)
		defer cancel()

		err := r.analytics.Publish(ctx, path, payload)
		metrics.RecordAnalytics(path, err)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("analytics publish failed", "path", path, "error", err)
		}
	})
}

func jitter(now time.Time, rnd random.Source) time.Time {
	return now.Add(-time.Duration(rnd.Float64() * float64(30*time.Minute)))
}
