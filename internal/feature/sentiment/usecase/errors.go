package usecase

import "errors"

var (
	// ErrWebhookPathRequired は公開操作に webhookPath が無いことを示します。
	ErrWebhookPathRequired = errors.New("webhookPath is required")
	// ErrInvalidWebhookPath は webhookPath が Webhook 配下を指していないことを示します。
	ErrInvalidWebhookPath = errors.New("webhookPath is invalid")
	// ErrStockNotFound は銘柄がカタログに存在しないことを示します。
	ErrStockNotFound = errors.New("stock not found")
)
