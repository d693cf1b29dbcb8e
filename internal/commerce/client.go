package commerce

import (
	"context"
	"net/url"
	"time"

	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/redis"
	"github.com/panelops/panelops-backend/pkg/restclient"
	"github.com/panelops/panelops-backend/pkg/types"
)

// Source is the cache namespace for commerce platform fetches.
const Source = "commerce"

// API is the surface the composition services consume.
type API interface {
	ListOrders(ctx context.Context, rng types.DateRange) ([]Order, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	ListCustomerGroups(ctx context.Context) ([]CustomerGroup, error)
}

// Client reads order/customer snapshots from the commerce platform, caching
// range queries in Redis keyed by their parameters.
type Client struct {
	rest     *restclient.Client
	cache    redis.CacheStore
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewClient wires the commerce client. cache may be nil to disable caching.
func NewClient(rest *restclient.Client, cache redis.CacheStore, cacheTTL time.Duration, logg *logger.Logger) *Client {
	return &Client{rest: rest, cache: cache, cacheTTL: cacheTTL, logger: logg}
}

// Ping verifies the upstream is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rest.Ping(ctx)
}

// ListOrders returns the order snapshots created inside the range, line
// items included.
func (c *Client) ListOrders(ctx context.Context, rng types.DateRange) ([]Order, error) {
	key := c.cacheKey("orders", rng.CacheKeySuffix())
	var cached []Order
	if c.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	query := url.Values{
		"from":   {rng.From.UTC().Format(time.RFC3339)},
		"to":     {rng.To.UTC().Format(time.RFC3339)},
		"expand": {"items,shipping_address"},
	}
	var payload struct {
		Orders []Order `json:"orders"`
	}
	if err := c.rest.Get(ctx, "/admin/orders", query, &payload); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, payload.Orders)
	return payload.Orders, nil
}

// ListCustomers returns every customer snapshot.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	key := c.cacheKey("customers")
	var cached []Customer
	if c.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	var payload struct {
		Customers []Customer `json:"customers"`
	}
	if err := c.rest.Get(ctx, "/admin/customers", nil, &payload); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, payload.Customers)
	return payload.Customers, nil
}

// ListCustomerGroups returns the group id to name mapping.
func (c *Client) ListCustomerGroups(ctx context.Context) ([]CustomerGroup, error) {
	key := c.cacheKey("customer-groups")
	var cached []CustomerGroup
	if c.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	var payload struct {
		CustomerGroups []CustomerGroup `json:"customer_groups"`
	}
	if err := c.rest.Get(ctx, "/admin/customer-groups", nil, &payload); err != nil {
		return nil, err
	}
	c.storeCache(ctx, key, payload.CustomerGroups)
	return payload.CustomerGroups, nil
}

func (c *Client) cacheKey(parts ...string) string {
	if c.cache == nil {
		return ""
	}
	return c.cache.CacheKey(Source, parts...)
}

// fromCache is best effort: a miss, a decode failure, or an unavailable
// Redis all fall through to a live fetch.
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
