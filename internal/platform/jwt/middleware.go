// Package jwtmw は Webhook 送信エンドポイント用の Bearer 認証を提供します。
package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sentiment_backend/internal/api"
)

// ContextPublisher はトークンの subject を保持する gin コンテキストのキーです。
const ContextPublisher = "publisher"

// PublishAuth returns a middleware requiring a publish-scoped bearer token.
// secret が空の場合は認証を行わずに通過させます（ローカル開発用）。
func PublishAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}
		if claims.Scope != ScopePublish {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "insufficient scope"})
			return
		}

		c.Set(ContextPublisher, claims.Subject)
		c.Next()
	}
}
