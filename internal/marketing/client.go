package marketing

import (
	"context"
	"net/url"
	"time"

	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/redis"
	"github.com/panelops/panelops-backend/pkg/restclient"
	"github.com/panelops/panelops-backend/pkg/types"
)

// Source is the cache namespace for marketing-analytics fetches.
const Source = "marketing"

// API exposes the external marketing overviews.
type API interface {
	AdsOverview(ctx context.Context, rng types.DateRange) (*AdsOverview, error)
	WebOverview(ctx context.Context, rng types.DateRange) (*WebOverview, error)
}

// Client reads ad-platform and web-analytics overviews.
type Client struct {
	rest     *restclient.Client
	cache    redis.CacheStore
	cacheTTL time.Duration
	logger   *logger.Logger
}

func NewClient(rest *restclient.Client, cache redis.CacheStore, cacheTTL time.Duration, logg *logger.Logger) *Client {
	return &Client{rest: rest, cache: cache, cacheTTL: cacheTTL, logger: logg}
}

// Ping verifies the upstream is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rest.Ping(ctx)
}

func (c *Client) AdsOverview(ctx context.Context, rng types.DateRange) (*AdsOverview, error) {
	key := c.cacheKey("ads", rng.CacheKeySuffix())
	var cached AdsOverview
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var out AdsOverview
	if err := c.rest.Get(ctx, "/ads/overview", rangeQuery(rng), &out); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, out)
	return &out, nil
}

func (c *Client) WebOverview(ctx context.Context, rng types.DateRange) (*WebOverview, error) {
	key := c.cacheKey("web", rng.CacheKeySuffix())
	var cached WebOverview
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var out WebOverview
	if err := c.rest.Get(ctx, "/web/overview", rangeQuery(rng), &out); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, out)
	return &out, nil
}

func rangeQuery(rng types.DateRange) url.Values {
	return url.Values{
		"from": {rng.From.UTC().Format(time.RFC3339)},
		"to":   {rng.To.UTC().Format(time.RFC3339)},
	}
}

func (c *Client) cacheKey(parts ...string) string {
	if c.cache == nil {
		return ""
	}
	return c.cache.CacheKey(Source, parts...)
}

func (c *Client) fromCache(ctx context.Context, key string, out any) bool {
	if c.cache == nil || key == "" {
		return false
	}
	hit, err := c.cache.GetJSON(ctx, key, out)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn(c.logger.WithSource(ctx, Source), "cache read failed, fetching live")
		}
		return false
	}
	return hit
}

func (c *Client) storeCache(ctx context.Context, key string, value any) {
	if c.cache == nil || key == "" {
		return
	}
	if err := c.cache.SetJSON(ctx, key, value, c.cacheTTL); err != nil && c.logger != nil {
		c.logger.Warn(c.logger.WithSource(ctx, Source), "failed to cache upstream result")
	}
}
