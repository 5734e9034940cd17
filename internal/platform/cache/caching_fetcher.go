// Package cache provides a Redis-backed response cache for webhook GETs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"sentiment_backend/internal/platform/metrics"
)

// DefaultTTL matches the webhook's max-age revalidation hint.
const DefaultTTL = 60 * time.Second

// subjectKeys are the params that identify which stock a response is about.
var subjectKeys = []string{"symbol", "stock"}

// Fetcher is a webhook GET.
type Fetcher interface {
	Get(ctx context.Context, path string, params map[string]any) ([]byte, error)
}

// Cacheable reports whether a successful body may be stored.
type Cacheable func(body []byte) bool

// CachingFetcher decorates a Fetcher with Redis caching.
// Only responses about a specific stock are cached. Errors and bodies rejected by
// the Cacheable check are never cached.
type CachingFetcher struct {
	inner     Fetcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	cacheable Cacheable
}

// Option configures a CachingFetcher.
type Option func(*CachingFetcher)

// WithCacheable sets the check applied before storing a body. The default accepts any JSON.
func WithCacheable(fn Cacheable) Option {
	return func(c *CachingFetcher) {
		if fn != nil {
			c.cacheable = fn
		}
	}
}

var _ Fetcher = (*CachingFetcher)(nil)

// NewCachingFetcher decorates inner with Redis caching.
// If ttl is 0, it defaults to DefaultTTL. If namespace is empty, it uses "n8n".
// A nil rdb disables caching.
func NewCachingFetcher(rdb *redis.Client, ttl time.Duration, inner Fetcher, namespace string, opts ...Option) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "n8n"
	}
	c := &CachingFetcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		cacheable: json.Valid,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns a cached body when present, otherwise calls inner and stores the result.
func (c *CachingFetcher) Get(ctx context.Context, path string, params map[string]any) ([]byte, error) {
	subject := subjectOf(params)
	// Bypass cache if Redis is not configured or the call is not about a stock
	if c.rdb == nil || subject == "" {
		return c.inner.Get(ctx, path, params)
	}

	key := c.cacheKey(path, subject, params)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && json.Valid(b):
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return b, nil
	case err == nil:
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
	}

	// 2) Fallback to the webhook
	out, err := c.inner.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if c.cacheable(out) {
		_ = c.rdb.Set(ctx, key, out, c.ttl).Err()
	}
	return out, nil
}

// Forget drops the cached response of a single call.
func (c *CachingFetcher) Forget(ctx context.Context, path string, params map[string]any) error {
	subject := subjectOf(params)
	if c.rdb == nil || subject == "" {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(path, subject, params)).Err()
}

// Invalidate drops every cached response about subject.
func (c *CachingFetcher) Invalidate(ctx context.Context, subject string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, fmt.Sprintf("%s:*:%s:*", c.namespace, safe(strings.ToUpper(subject))))
}

// cacheKey generates namespace:path:SUBJECT:canonical-query.
func (c *CachingFetcher) cacheKey(path, subject string, params map[string]any) string {
	q := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		q.Set(k, fmt.Sprint(v))
	}
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(strings.Trim(path, "/")),
		safe(subject),
		safe(q.Encode()),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingFetcher) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

func subjectOf(params map[string]any) string {
	for _, k := range subjectKeys {
		if v, ok := params[k]; ok && v != nil {
			if s := strings.ToUpper(strings.TrimSpace(fmt.Sprint(v))); s != "" {
				return s
			}
		}
	}
	return ""
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
