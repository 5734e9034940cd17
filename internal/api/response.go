// Package api は各ハンドラ共通のレスポンスボディを定義します。
package api

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}
