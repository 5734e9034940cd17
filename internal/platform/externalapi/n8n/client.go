package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sentiment_backend/internal/platform/metrics"
	"sentiment_backend/internal/shared/ratelimiter"
)

const (
	webhookPrefix = "/webhook/"
	apiPath       = "api"
	healthPath    = "/healthz"
	postLabel     = "post"
	maxBodyBytes  = 4 << 20
)

// Client は n8n Webhook への GET/POST とヘルスチェックを提供します。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// NewClient は Client を生成します。limiter が nil の場合は制限しません。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	cfg = cfg.withDefaults()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Request は api ワークフローの endpointKey を呼び出します。
// GET {base}/webhook/api?endpoint={endpointKey}&...
func (c *Client) Request(ctx context.Context, endpointKey string, params map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["endpoint"] = endpointKey
	return c.Get(ctx, apiPath, merged)
}

// Get は GET {base}/webhook/{path} を呼び出し、JSON本文を返します。
// nil のパラメータは付与しません。
func (c *Client) Get(ctx context.Context, path string, params map[string]any) ([]byte, error) {
	u, err := c.webhookURL(path, encodeParams(params))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("n8n: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.cfg.MaxAge.Seconds())))

	body, err := c.do(ctx, req, metricLabel(path, params))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrShape)
	}
	return body, nil
}

// Post は任意の JSON を POST {base}/webhook/{path} に送信します。
func (c *Client) Post(ctx context.Context, path string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("n8n: encode payload: %w", err)
	}

	u, err := c.webhookURL(path, "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("n8n: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// パスは呼び出し側の入力なのでラベルには使わない
	_, err = c.do(ctx, req, postLabel)
	return err
}

// CheckHealth は /healthz が2xxを返すかを確認します。いかなる失敗も false になります。
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return false
	}
	if _, err := c.do(ctx, req, "healthz"); err != nil {
		slog.Debug("n8n health check failed", "error", err)
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, req *http.Request, label string) ([]byte, error) {
	start := time.Now()
	body, err := c.roundTrip(ctx, req)
	metrics.ObserveWebhook(label, outcome(err), time.Since(start))
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classify(ctx, err)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// 接続を再利用できるよう読み捨てる
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
		return nil, &HTTPError{StatusCode: res.StatusCode, Status: http.StatusText(res.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(ctx, err)
	}
	return body, nil
}

// webhookURL は {base}/webhook/{path} を組み立てます。
// path はリテラルとして扱われ、"%" もエスケープされるため上流でデコードされても /webhook/ の外には出ません。
func (c *Client) webhookURL(path, rawQuery string) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("n8n: invalid base url: %w", err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + webhookPrefix + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = rawQuery
	return u.String(), nil
}

// classify maps transport failures onto ErrTimeout or ErrNetwork.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func encodeParams(params map[string]any) string {
	q := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		q.Set(k, fmt.Sprint(v))
	}
	return q.Encode()
}

func metricLabel(path string, params map[string]any) string {
	p := strings.Trim(path, "/")
	if ep, ok := params["endpoint"]; ok && ep != nil {
		return p + ":" + fmt.Sprint(ep)
	}
	return p
}

func outcome(err error) string {
	var he *HTTPError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &he):
		return "http_error"
	default:
		return "network_error"
	}
}
