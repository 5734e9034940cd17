package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment_backend/internal/api"
	"sentiment_backend/internal/feature/sentiment/domain/entity"
	"sentiment_backend/internal/feature/sentiment/transport/http/dto"
	"sentiment_backend/internal/feature/sentiment/usecase"
	jwtmw "sentiment_backend/internal/platform/jwt"
)

// SentimentResolver はハンドラが必要とする Resolver の操作です。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SentimentResolver interface {
	ResolveSentiment(ctx context.Context, symbol string) entity.SentimentSnapshot
	ResolveMentions(ctx context.Context, symbol string, limit int) entity.MentionFeed
	ResolveReddit(ctx context.Context, q usecase.RedditQuery) entity.RedditSentimentSnapshot
	Publish(ctx context.Context, path string, payload any) (bool, error)
	Status(ctx context.Context) entity.ServiceStatus
	Dashboard(ctx context.Context, symbol string) entity.Dashboard
	RefreshDashboard(ctx context.Context, symbol string) entity.Dashboard
}

// SentimentHandler はセンチメント関連のHTTPリクエストを処理します。
// Resolver が必ず描画可能な値を返すため、取得系は常に 200 です。
type SentimentHandler struct {
	r SentimentResolver
}

// NewSentimentHandler は新しい SentimentHandler を作成します。
func NewSentimentHandler(r SentimentResolver) *SentimentHandler {
	return &SentimentHandler{r: r}
}

// GetReddit handles GET /reddit-sentiment?stock=&subreddit=&static=.
func (h *SentimentHandler) GetReddit(c *gin.Context) {
	var q dto.RedditQuery
	// 文字列のみのため bind は失敗しない
	_ = c.ShouldBindQuery(&q)

	snap := h.r.ResolveReddit(c.Request.Context(), usecase.RedditQuery{
		Stock:       q.Stock,
		Subreddit:   q.Subreddit,
		ForceStatic: q.ForceStatic(),
		UserAgent:   c.Request.UserAgent(),
	})
	c.JSON(http.StatusOK, snap)
}

// PostReddit handles POST /reddit-sentiment {webhookPath, data}.
func (h *SentimentHandler) PostReddit(c *gin.Context) {
	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	ok, err := h.r.Publish(c.Request.Context(), req.WebhookPath, req.Payload())
	switch {
	case errors.Is(err, usecase.ErrWebhookPathRequired), errors.Is(err, usecase.ErrInvalidWebhookPath):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		slog.Error("publish failed unexpectedly", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		return
	}

	if p := c.GetString(jwtmw.ContextPublisher); p != "" {
		slog.Info("webhook publish", "publisher", p, "path", req.WebhookPath, "success", ok)
	}
	c.JSON(http.StatusOK, dto.NewPublishResponse(ok))
}

// GetSentiment handles GET /sentiment/:symbol.
func (h *SentimentHandler) GetSentiment(c *gin.Context) {
	c.JSON(http.StatusOK, h.r.ResolveSentiment(c.Request.Context(), c.Param("symbol")))
}

// GetMentions handles GET /mentions/:symbol?limit=.
func (h *SentimentHandler) GetMentions(c *gin.Context) {
	limit := dto.ParseLimit(c.Query("limit"))
	c.JSON(http.StatusOK, h.r.ResolveMentions(c.Request.Context(), c.Param("symbol"), limit))
}

// GetStatus handles GET /status.
func (h *SentimentHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.r.Status(c.Request.Context()))
}

// GetDashboard handles GET /dashboard/:symbol.
func (h *SentimentHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.r.Dashboard(c.Request.Context(), c.Param("symbol")))
}

// RefreshDashboard handles POST /dashboard/:symbol/refresh.
func (h *SentimentHandler) RefreshDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.r.RefreshDashboard(c.Request.Context(), c.Param("symbol")))
}
