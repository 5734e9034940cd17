package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sentimenthandler "sentiment_backend/internal/feature/sentiment/transport/handler"
	"sentiment_backend/internal/platform/errtrack"
	platformhandler "sentiment_backend/internal/platform/http/handler"
	jwtmw "sentiment_backend/internal/platform/jwt"
	"sentiment_backend/internal/platform/metrics"
)

// Handlers are the route targets.
type Handlers struct {
	Sentiment *sentimenthandler.SentimentHandler
	Stocks    *sentimenthandler.StockHandler
	Health    *platformhandler.Health
}

// NewRouter はルーティングを構成します。publishSecret が空なら公開APIは認証なしです。
func NewRouter(h Handlers, publishSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), errtrack.Recovery())

	// 導通確認・メトリクス
	r.Match([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, "/healthz", h.Health.Handle)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/reddit-sentiment", h.Sentiment.GetReddit)
	// 任意の Webhook への送信は Bearer トークン必須（シークレット設定時）
	r.POST("/reddit-sentiment", jwtmw.PublishAuth(publishSecret), h.Sentiment.PostReddit)

	r.GET("/sentiment/:symbol", h.Sentiment.GetSentiment)
	r.GET("/mentions/:symbol", h.Sentiment.GetMentions)
	r.GET("/status", h.Sentiment.GetStatus)
	r.GET("/dashboard/:symbol", h.Sentiment.GetDashboard)
	r.POST("/dashboard/:symbol/refresh", h.Sentiment.RefreshDashboard)

	r.GET("/stocks", h.Stocks.List)
	r.GET("/stocks/:symbol", h.Stocks.Get)

	return r
}
