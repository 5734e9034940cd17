package n8n

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout はタイムアウトで呼び出しが打ち切られたことを示します。
	ErrTimeout = errors.New("n8n: request timeout")
	// ErrNetwork は接続・DNSなどの通信失敗を示します。
	ErrNetwork = errors.New("n8n: network error")
	// ErrShape は2xx応答だが本文が利用できないことを示します。
	ErrShape = errors.New("n8n: unexpected response shape")
)

// HTTPError は2xx以外の応答です。
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}
