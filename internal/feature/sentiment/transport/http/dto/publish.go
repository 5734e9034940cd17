// Package dto は sentiment 機能の HTTP 入出力を定義します。
package dto

import "encoding/json"

// PublishRequest is the body of POST /reddit-sentiment.
type PublishRequest struct {
	WebhookPath string          `json:"webhookPath"`
	Data        json.RawMessage `json:"data"`
}

// Payload は data を返します。未指定・null の場合は空オブジェクトです。
func (r PublishRequest) Payload() json.RawMessage {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return json.RawMessage(`{}`)
	}
	return r.Data
}

// PublishResponse is the result of a publish.
type PublishResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	MessagePublished     = "Data published to N8n successfully"
	MessagePublishFailed = "Failed to publish to N8n"
)

// NewPublishResponse builds the response for a publish outcome.
func NewPublishResponse(ok bool) PublishResponse {
	if ok {
		return PublishResponse{Success: true, Message: MessagePublished}
	}
	return PublishResponse{Success: false, Message: MessagePublishFailed}
}
