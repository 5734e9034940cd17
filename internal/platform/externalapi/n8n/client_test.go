package n8n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiment_backend/internal/platform/metrics"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	cfg.BaseURL = server.URL + "/"
	return NewClient(cfg, server.Client(), nil)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{}, nil, nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
	assert.Equal(t, DefaultHealthTimeout, c.cfg.HealthTimeout)
}

func TestClient_Request_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/webhook/api", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "mentions", q.Get("endpoint"))
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.False(t, q.Has("cursor"), "nil params are skipped")
		assert.Equal(t, "max-age=60", r.Header.Get("Cache-Control"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}, Config{})

	body, err := c.Request(context.Background(), "mentions", map[string]any{"symbol": "AAPL", "limit": 5, "cursor": nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[]}`, string(body))
}

func TestClient_Get_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "non-2xx carries status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			check: func(t *testing.T, err error) {
				var he *HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, http.StatusServiceUnavailable, he.StatusCode)
				assert.Equal(t, "Service Unavailable", he.Status)
				assert.Equal(t, "HTTP 503: Service Unavailable", he.Error())
			},
		},
		{
			name: "redirect-class status is a failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotModified)
			},
			check: func(t *testing.T, err error) {
				var he *HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, http.StatusNotModified, he.StatusCode)
			},
		},
		{
			name: "invalid JSON is a shape error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrShape)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tc.handler, Config{})
			_, err := c.Get(context.Background(), "reddit-sentiment", map[string]any{"stock": "AAPL"})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClient_Get_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{Timeout: 50 * time.Millisecond})
	defer close(release)

	start := time.Now()
	_, err := c.Get(context.Background(), "api", nil)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_Get_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(Config{BaseURL: url}, &http.Client{}, nil)
	_, err := c.Get(context.Background(), "api", nil)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestClient_Post(t *testing.T) {
	t.Parallel()

	gotCh := make(chan map[string]any, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook/analytics/reddit-request", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		var got map[string]any
		assert.NoError(t, json.Unmarshal(b, &got))
		gotCh <- got
		w.WriteHeader(http.StatusAccepted)
	}, Config{})

	err := c.Post(context.Background(), "/analytics/reddit-request", map[string]any{"stock": "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", (<-gotCh)["stock"])
}

func TestClient_Post_Failure(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{})

	err := c.Post(context.Background(), "anything", map[string]any{})
	var he *HTTPError
	assert.ErrorAs(t, err, &he)
}

func TestClient_Post_MetricLabelIsFixed(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, Config{})

	for i := range 200 {
		require.NoError(t, c.Post(context.Background(), fmt.Sprintf("caller-%d", i), map[string]any{}))
	}

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(metrics.WebhookCalls))
	families, err := reg.Gather()
	require.NoError(t, err)

	endpoints := map[string]struct{}{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "endpoint" && strings.HasPrefix(lp.GetValue(), "post") {
					endpoints[lp.GetValue()] = struct{}{}
				}
			}
		}
	}
	assert.Equal(t, map[string]struct{}{"post": {}}, endpoints)
}

func TestClient_PathIsSentLiterally(t *testing.T) {
	t.Parallel()

	pathCh := make(chan [2]string, 2)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pathCh <- [2]string{r.URL.Path, r.URL.RawQuery}
		_, _ = w.Write([]byte(`{}`))
	}, Config{})

	_, err := c.Get(context.Background(), "%2e%2e/%2e%2e/rest/admin", map[string]any{"symbol": "AAPL"})
	require.NoError(t, err)
	got := <-pathCh
	assert.Equal(t, "/webhook/%2e%2e/%2e%2e/rest/admin", got[0], "escaped once more, so the server decodes back to the literal text")
	assert.Equal(t, "symbol=AAPL", got[1])

	require.NoError(t, c.Post(context.Background(), "a b", map[string]any{}))
	assert.Equal(t, "/webhook/a b", (<-pathCh)[0])
}

func TestClient_CheckHealth(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "200 is healthy", status: http.StatusOK, want: true},
		{name: "204 is healthy", status: http.StatusNoContent, want: true},
		{name: "500 is unhealthy", status: http.StatusInternalServerError, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/healthz", r.URL.Path)
				w.WriteHeader(tc.status)
			}, Config{})
			assert.Equal(t, tc.want, c.CheckHealth(context.Background()))
		})
	}
}

func TestClient_CheckHealth_TimeoutIsFalse(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, Config{HealthTimeout: 30 * time.Millisecond})
	assert.False(t, c.CheckHealth(context.Background()))
}

type countingLimiter struct{ n atomic.Int32 }

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.n.Add(1)
	return nil
}

func TestClient_UsesLimiter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	l := &countingLimiter{}
	c := NewClient(Config{BaseURL: server.URL}, server.Client(), l)
	_, err := c.Get(context.Background(), "api", nil)
	require.NoError(t, err)
	assert.True(t, c.CheckHealth(context.Background()))
	assert.EqualValues(t, 2, l.n.Load())
}

func TestEncodeParams(t *testing.T) {
	t.Parallel()

	got := encodeParams(map[string]any{"b": 1.5, "a": "x y", "c": nil, "d": true})
	assert.Equal(t, "a=x+y&b=1.5&d=true", got)
}
