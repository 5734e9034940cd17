// Package http は外部 Webhook 呼び出し用の HTTP クライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// ClientOptions tunes the outbound transport.
type ClientOptions struct {
	// Timeout はリクエスト全体の上限です。呼び出し側の context より長く取ること。
	Timeout             time.Duration
	DialTimeout         time.Duration
	MaxIdleConnsPerHost int
	UserAgent           string
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	if o.MaxIdleConnsPerHost <= 0 {
		o.MaxIdleConnsPerHost = 16
	}
	if o.UserAgent == "" {
		o.UserAgent = "sentiment-backend"
	}
	return o
}

// NewHTTPClient は n8n 向けに設定された *http.Client を返します。
//
// 呼び出しはすべて単一ホストに向かうため、ホスト当たりのアイドル接続数を広げています。
// http.DefaultClient はタイムアウトを持たないので使わないこと。
func NewHTTPClient(opts ClientOptions) *http.Client {
	opts = opts.withDefaults()
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   opts.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: opts.Timeout,
	}
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: &userAgentTransport{base: t, ua: opts.UserAgent},
	}
}

type userAgentTransport struct {
	base http.RoundTripper
	ua   string
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", u.ua)
	return u.base.RoundTrip(r)
}
