// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check は依存先1件の疎通確認です。
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Health serves /healthz. 依存先の障害は "degraded" として報告しますが、
// フォールバックで応答は継続できるためステータスコードは常に 200 です。
type Health struct {
	checks  []Check
	timeout time.Duration
}

// NewHealth returns a Health handler running the given checks.
func NewHealth(checks ...Check) *Health {
	return &Health{checks: checks, timeout: 2 * time.Second}
}

// Handle は /healthz を処理します。
func (h *Health) Handle(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := "ok"
	results := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Fn(ctx); err != nil {
			results[chk.Name] = err.Error()
			status = "degraded"
			continue
		}
		results[chk.Name] = "ok"
	}

	body := gin.H{"status": status}
	if len(results) > 0 {
		body["checks"] = results
	}
	c.JSON(http.StatusOK, body)
}
