package events

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/redis"
	"github.com/panelops/panelops-backend/pkg/restclient"
	"github.com/panelops/panelops-backend/pkg/types"
)

// Source is the cache namespace for event-store fetches.
const Source = "events"

// API is the query surface of the behavioral-event store.
type API interface {
	Stats(ctx context.Context, rng types.DateRange, page string) (*Stats, error)
	Funnel(ctx context.Context, rng types.DateRange, page string) ([]FunnelStep, error)
	Search(ctx context.Context, filter SearchFilter) (*SearchResult, error)
	Heatmap(ctx context.Context, rng types.DateRange, page string) ([]HeatmapPoint, error)
	ScrollDepth(ctx context.Context, rng types.DateRange, page string) ([]ScrollDepthBucket, error)
	ProductVisibility(ctx context.Context, rng types.DateRange) ([]ProductVisibility, error)
}

// Client queries the external behavioral-event store. Aggregate endpoints
// (stats, funnel) are cached; searches are always live.
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

func (c *Client) Stats(ctx context.Context, rng types.DateRange, page string) (*Stats, error) {
	key := c.cacheKey("stats", rng.CacheKeySuffix(), page)
	var cached Stats
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var out Stats
	if err := c.rest.Get(ctx, "/stats", rangeQuery(rng, page), &out); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, out)
	return &out, nil
}

func (c *Client) Funnel(ctx context.Context, rng types.DateRange, page string) ([]FunnelStep, error) {
	key := c.cacheKey("funnel", rng.CacheKeySuffix(), page)
	var cached []FunnelStep
	if c.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	var payload struct {
		Steps []FunnelStep `json:"steps"`
	}
	if err := c.rest.Get(ctx, "/funnel", rangeQuery(rng, page), &payload); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, payload.Steps)
	return payload.Steps, nil
}

func (c *Client) Search(ctx context.Context, filter SearchFilter) (*SearchResult, error) {
	query := rangeQuery(filter.Range, filter.Page)
	if filter.Type != "" {
		query.Set("event_type", filter.Type)
	}
	if filter.Source != "" {
		query.Set("source", filter.Source)
	}
	if filter.CustomerID != "" {
		query.Set("customer_id", filter.CustomerID)
	}
	p := filter.Pagination.Normalize()
	query.Set("limit", strconv.Itoa(p.Limit))
	query.Set("offset", strconv.Itoa(p.Offset))

	var out SearchResult
	if err := c.rest.Get(ctx, "/events/search", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Heatmap(ctx context.Context, rng types.DateRange, page string) ([]HeatmapPoint, error) {
	var payload struct {
		Points []HeatmapPoint `json:"points"`
	}
	if err := c.rest.Get(ctx, "/heatmap", rangeQuery(rng, page), &payload); err != nil {
		return nil, err
	}
	return payload.Points, nil
}

func (c *Client) ScrollDepth(ctx context.Context, rng types.DateRange, page string) ([]ScrollDepthBucket, error) {
	var payload struct {
		Buckets []ScrollDepthBucket `json:"buckets"`
	}
	if err := c.rest.Get(ctx, "/scroll-depth", rangeQuery(rng, page), &payload); err != nil {
		return nil, err
	}
	return payload.Buckets, nil
}

func (c *Client) ProductVisibility(ctx context.Context, rng types.DateRange) ([]ProductVisibility, error) {
	var payload struct {
		Products []ProductVisibility `json:"products"`
	}
	if err := c.rest.Get(ctx, "/product-visibility", rangeQuery(rng, ""), &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

func rangeQuery(rng types.DateRange, page string) url.Values {
	query := url.Values{
		"from": {rng.From.UTC().Format(time.RFC3339)},
		"to":   {rng.To.UTC().Format(time.RFC3339)},
	}
	if page != "" {
		query.Set("page", page)
	}
	return query
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
