// Package picking proxies the fulfillment backend's picking operations. The
// service validates, forwards, and maps errors; the backend owns all state.
package picking

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/redis"
	"github.com/panelops/panelops-backend/pkg/restclient"
)

// Source is the cache namespace for picking reads.
const Source = "picking"

// Service exposes the picking proxy operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Get(ctx context.Context, id string) (*Operation, error)
	Ship(ctx context.Context, id string, input ShipInput) (*Operation, error)
	Deliver(ctx context.Context, id string) (*Operation, error)
	ResolveShortage(ctx context.Context, id string, input ShortageInput) (*Operation, error)
}

type service struct {
	rest     *restclient.Client
	cache    redis.CacheStore
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the picking proxy. cache may be nil.
func NewService(rest *restclient.Client, cache redis.CacheStore, cacheTTL time.Duration, logg *logger.Logger) Service {
	return &service{rest: rest, cache: cache, cacheTTL: cacheTTL, logg: logg}
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	params := filter.Pagination.Normalize()
	key := s.listCacheKey(filter.Status, params.Limit, params.Offset)
	if key != "" {
		var cached ListResult
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	query := url.Values{
		"limit":  {strconv.Itoa(params.Limit)},
		"offset": {strconv.Itoa(params.Offset)},
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}

	var out ListResult
	if err := s.rest.Get(ctx, "/picking", query, &out); err != nil {
		return nil, err
	}
	if key != "" {
		if err := s.cache.SetJSON(ctx, key, out, s.cacheTTL); err != nil {
			s.logg.Warn(s.logg.WithSource(ctx, Source), "failed to cache picking list")
		}
	}
	return &out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Operation, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Operation
	if err := s.rest.Get(ctx, "/picking/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Ship(ctx context.Context, id string, input ShipInput) (*Operation, error) {
	return s.action(ctx, id, "ship", input)
}

func (s *service) Deliver(ctx context.Context, id string) (*Operation, error) {
	return s.action(ctx, id, "deliver", nil)
}

func (s *service) ResolveShortage(ctx context.Context, id string, input ShortageInput) (*Operation, error) {
	return s.action(ctx, id, "resolve-shortage", input)
}

func (s *service) action(ctx context.Context, id, name string, body any) (*Operation, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Operation
	if err := s.rest.Post(ctx, "/picking/"+id+"/"+name, body, &out); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &out, nil
}

func (s *service) listCacheKey(status string, limit, offset int) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CacheKey(Source, "list", status, strconv.Itoa(limit), strconv.Itoa(offset))
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSource(ctx, Source); err != nil {
		s.logg.Warn(s.logg.WithSource(ctx, Source), "failed to invalidate picking cache")
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "operation id is required")
	}
	return nil
}
