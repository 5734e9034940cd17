package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(ClientOptions{})
	assert.Equal(t, 30*time.Second, c.Timeout)

	uat, ok := c.Transport.(*userAgentTransport)
	require.True(t, ok)
	tr, ok := uat.base.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 16, tr.MaxIdleConnsPerHost)
	assert.Equal(t, "sentiment-backend", uat.ua)
}

func TestNewHTTPClient_UserAgent(t *testing.T) {
	t.Parallel()

	got := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.UserAgent()
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(ClientOptions{Timeout: time.Second, UserAgent: "dash/1"})

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "dash/1", <-got)

	// 呼び出し側の指定は上書きしない
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "custom")
	resp, err = c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "custom", <-got)
}
