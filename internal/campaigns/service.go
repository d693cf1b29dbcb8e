// Package campaigns proxies the email-marketing backend: campaign CRUD,
// lifecycle actions, and the account-wide sending configuration.
package campaigns

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

// Source is the cache namespace for campaign reads.
const Source = "campaigns"

// Service exposes the campaign proxy operations.
type Service interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Get(ctx context.Context, id string) (*Campaign, error)
	Create(ctx context.Context, input CreateInput) (*Campaign, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Campaign, error)
	Delete(ctx context.Context, id string) error
	Pause(ctx context.Context, id string) (*Campaign, error)
	Resume(ctx context.Context, id string) (*Campaign, error)
	SendTest(ctx context.Context, id string, input SendTestInput) error
	GetEmailConfig(ctx context.Context) (*EmailConfig, error)
	UpdateEmailConfig(ctx context.Context, input EmailConfigInput) (*EmailConfig, error)
}

type service struct {
	rest     *restclient.Client
	cache    redis.CacheStore
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the campaign proxy. cache may be nil.
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
	if err := s.rest.Get(ctx, "/campaigns", query, &out); err != nil {
		return nil, err
	}
	if key != "" {
		if err := s.cache.SetJSON(ctx, key, out, s.cacheTTL); err != nil {
			s.logg.Warn(s.logg.WithSource(ctx, Source), "failed to cache campaign list")
		}
	}
	return &out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Campaign, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Campaign
	if err := s.rest.Get(ctx, "/campaigns/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Campaign, error) {
	var out Campaign
	if err := s.rest.Post(ctx, "/campaigns", input, &out); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &out, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Campaign, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Campaign
	if err := s.rest.Patch(ctx, "/campaigns/"+id, input, &out); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.rest.Delete(ctx, "/campaigns/"+id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Pause(ctx context.Context, id string) (*Campaign, error) {
	return s.action(ctx, id, "pause")
}

func (s *service) Resume(ctx context.Context, id string) (*Campaign, error) {
	return s.action(ctx, id, "resume")
}

// SendTest has no side effects on the campaign itself, so the cache survives.
func (s *service) SendTest(ctx context.Context, id string, input SendTestInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.rest.Post(ctx, "/campaigns/"+id+"/send-test", input, nil)
}

func (s *service) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var out EmailConfig
	if err := s.rest.Get(ctx, "/email-marketing/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) UpdateEmailConfig(ctx context.Context, input EmailConfigInput) (*EmailConfig, error) {
	var out EmailConfig
	if err := s.rest.Put(ctx, "/email-marketing/config", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) action(ctx context.Context, id, name string) (*Campaign, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	var out Campaign
	if err := s.rest.Post(ctx, "/campaigns/"+id+"/"+name, nil, &out); err != nil {
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
		s.logg.Warn(s.logg.WithSource(ctx, Source), "failed to invalidate campaign cache")
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	return nil
}
