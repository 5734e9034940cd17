// Package n8n は n8n ワークフローの Webhook を呼び出す HTTP クライアントです。
// リトライは行いません。失敗時の方針は呼び出し側（Resolver）が決めます。
package n8n

import "time"

const (
	// DefaultBaseURL は N8N_BASE_URL 未設定時のローカル n8n です。
	DefaultBaseURL = "http://localhost:5678"
	// DefaultTimeout はデータ取得系の呼び出し上限です。
	DefaultTimeout = 10 * time.Second
	// DefaultHealthTimeout はヘルスチェックの呼び出し上限です。
	DefaultHealthTimeout = 5 * time.Second
	// DefaultMaxAge はGETに付与する再検証ヒント（秒）です。
	DefaultMaxAge = 60 * time.Second
)

// Config holds configuration for the webhook client.
type Config struct {
	BaseURL       string        // e.g. "http://localhost:5678"
	Timeout       time.Duration // data calls
	HealthTimeout time.Duration // /healthz
	MaxAge        time.Duration // Cache-Control hint on GET
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = DefaultHealthTimeout
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
	return c
}
