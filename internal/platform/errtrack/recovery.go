// Package errtrack はパニックを 500 応答に変換し Sentry に報告します。
package errtrack

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"sentiment_backend/internal/api"
)

// Init configures the Sentry client. dsn が空の場合は何もせず false を返します。
func Init(dsn, environment string) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: environment}); err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	return true, nil
}

// Flush waits for buffered events. シャットダウン時に呼びます。
func Flush() {
	sentry.Flush(2 * time.Second)
}

// Recovery returns a middleware that turns panics into
// 500 {"error":"Internal server error"}. 内部の詳細は応答に含めません。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.Error("handler panic",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)

			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetRequest(c.Request)
				scope.SetTag("route", c.FullPath())
			})
			hub.RecoverWithContext(c.Request.Context(), rec)

			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
		}()
		c.Next()
	}
}
