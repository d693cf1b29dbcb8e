// Package resellers proxies the reseller backend: partner records, lifecycle
// actions, and voucher issuing.
package resellers

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

// Source is the cache namespace for reseller reads.
const Source = "resellers"

// Service exposes the reseller proxy operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Get(ctx context.Context, id string) (*Reseller, error)
	Create(ctx context.Context, input CreateInput) (*Reseller, error)
	Approve(ctx context.Context, id string) (*Reseller, error)
	Suspend(ctx context.Context, id string) (*Reseller, error)
	CreateVoucher(ctx context.Context, id string, input VoucherInput) (*Voucher, error)
}

type service struct {
	rest     *restclient.Client
	cache    redis.CacheStore
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the reseller proxy. cache may be nil.
func NewService(rest *restclient.Client, cache redis.CacheStore, cacheTTL time.Duration, logg *logger.Logger) Service {
	return &service{rest: rest, cache: cache, cacheTTL: cacheTTL, logg: logg}
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	params := filter.Pagination.Normalize()
	var key string
	if s.cache != nil {
		key = s.cache.CacheKey(Source, "list", filter.Status, strconv.Itoa(params.Limit), strconv.Itoa(params.Offset))
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
	if err := s.rest.Get(ctx, "/resellers", query, &out); err != nil {
		return nil, err
	}
	if key != "" {
		if err := s.cache.SetJSON(ctx, key, out, s.cacheTTL); err != nil {
			s.logg.Warn(s.logg.WithSource(ctx, Source), "failed to cache reseller list")
		}
	}
	return &out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Reseller, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Reseller
	if err := s.rest.Get(ctx, "/resellers/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Reseller, error) {
	var out Reseller
	if err := s.rest.Post(ctx, "/resellers", input, &out); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &out, nil
}

func (s *service) Approve(ctx context.Context, id string) (*Reseller, error) {
	return s.action(ctx, id, "approve")
}

func (s *service) Suspend(ctx context.Context, id string) (*Reseller, error) {
	return s.action(ctx, id, "suspend")
}

func (s *service) CreateVoucher(ctx context.Context, id string, input VoucherInput) (*Voucher, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Voucher
	if err := s.rest.Post(ctx, "/resellers/"+id+"/vouchers", input, &out); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &out, nil
}

func (s *service) action(ctx context.Context, id, name string) (*Reseller, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Reseller
	if err := s.rest.Post(ctx, "/resellers/"+id+"/"+name, nil, &out); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &out, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSource(ctx, Source); err != nil {
		s.logg.Warn(s.logg.WithSource(ctx, Source), "failed to invalidate reseller cache")
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reseller id is required")
	}
	return nil
}
