// Package analytics composes commerce, behavioral-event, and marketing
// sources into cross-channel read models: the channel overview (spend,
// traffic, revenue, ROAS) and the purchase funnel. The same isolation rules
// as the dashboard apply: sources fail independently.
package analytics

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/panelops/panelops-backend/internal/aggregations"
	"github.com/panelops/panelops-backend/internal/commerce"
	"github.com/panelops/panelops-backend/internal/events"
	"github.com/panelops/panelops-backend/internal/marketing"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/types"
)

// CommerceBlock is the paid-sales slice of the channel overview.
type CommerceBlock struct {
	Revenue    int64 `json:"revenue"`
	PaidOrders int   `json:"paid_orders"`
}

// Overview is the cross-channel analytics payload. ROAS is paid revenue in
// major units divided by ad spend, nil when either side is unavailable or
// spend is zero.
type Overview struct {
	Range          types.DateRange        `json:"range"`
	Commerce       *CommerceBlock         `json:"commerce"`
	Ads            *marketing.AdsOverview `json:"ads"`
	Web            *marketing.WebOverview `json:"web"`
	ROAS           *decimal.Decimal       `json:"roas"`
	ConversionRate float64                `json:"conversion_rate"`
	Errors         map[string]string      `json:"errors,omitempty"`
}

// FunnelStep is one stage of the purchase funnel. Rate is the percentage of
// the previous step that reached this one, 0 for the first step and whenever
// the previous step is 0.
type FunnelStep struct {
	Label string  `json:"label"`
	Count int64   `json:"count"`
	Rate  float64 `json:"rate"`
}

// Funnel is the composed purchase funnel for a range.
type Funnel struct {
	Range  types.DateRange   `json:"range"`
	Page   string            `json:"page,omitempty"`
	Steps  []FunnelStep      `json:"steps"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Service builds the analytics pages.
type Service interface {
	Overview(ctx context.Context, rng types.DateRange) (*Overview, error)
	Funnel(ctx context.Context, rng types.DateRange, page string) (*Funnel, error)
	SearchEvents(ctx context.Context, filter events.SearchFilter) (*events.SearchResult, error)
	Heatmap(ctx context.Context, rng types.DateRange, page string) ([]events.HeatmapPoint, error)
	ScrollDepth(ctx context.Context, rng types.DateRange, page string) ([]events.ScrollDepthBucket, error)
	ProductVisibility(ctx context.Context, rng types.DateRange) ([]events.ProductVisibility, error)
}

type service struct {
	commerce  commerce.API
	events    events.API
	marketing marketing.API
	logg      *logger.Logger
}

// NewService wires the analytics composition over its three sources.
func NewService(commerceAPI commerce.API, eventsAPI events.API, marketingAPI marketing.API, logg *logger.Logger) Service {
	return &service{commerce: commerceAPI, events: eventsAPI, marketing: marketingAPI, logg: logg}
}

type sourceErrors struct {
	mu     sync.Mutex
	errors map[string]string
}

func (s *sourceErrors) add(ctx context.Context, logg *logger.Logger, source string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errors == nil {
		s.errors = map[string]string{}
	}
	s.errors[source] = err.Error()
	logg.Warn(logg.WithSource(ctx, source), "analytics source degraded")
}

func (s *sourceErrors) value() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

func (s *service) Overview(ctx context.Context, rng types.DateRange) (*Overview, error) {
	var (
		orders []commerce.Order
		ads    *marketing.AdsOverview
		web    *marketing.WebOverview

		ordersOK bool
	)
	degraded := &sourceErrors{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.commerce.ListOrders(gctx, rng)
		if err != nil {
			degraded.add(ctx, s.logg, "commerce", err)
			return nil
		}
		orders = fetched
		ordersOK = true
		return nil
	})
	g.Go(func() error {
		fetched, err := s.marketing.AdsOverview(gctx, rng)
		if err != nil {
			degraded.add(ctx, s.logg, "ads", err)
			return nil
		}
		ads = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.marketing.WebOverview(gctx, rng)
		if err != nil {
			degraded.add(ctx, s.logg, "web", err)
			return nil
		}
		web = fetched
		return nil
	})
	_ = g.Wait()

	overview := &Overview{Range: rng, Ads: ads, Web: web}

	if ordersOK {
		paid := aggregations.FilterPaidOrders(orders)
		block := &CommerceBlock{PaidOrders: len(paid)}
		for _, order := range paid {
			block.Revenue += order.Total
		}
		overview.Commerce = block

		if ads != nil && ads.Spend.IsPositive() {
			// Order totals are minor units; spend is major units.
			roas := decimal.NewFromInt(block.Revenue).Shift(-2).DivRound(ads.Spend, 4)
			overview.ROAS = &roas
		}
		if web != nil && web.Sessions > 0 {
			overview.ConversionRate = float64(block.PaidOrders) / float64(web.Sessions) * 100
		}
	}

	overview.Errors = degraded.value()
	return overview, nil
}

// funnelStepLabels are the event-store stages, in order, ahead of the final
// paid-orders stage.
var funnelStepLabels = []string{"Sesiones", "Vistas de producto", "Carritos", "Checkouts iniciados"}

func (s *service) Funnel(ctx context.Context, rng types.DateRange, page string) (*Funnel, error) {
	var (
		stats  *events.Stats
		orders []commerce.Order

		statsErr error
		ordersOK bool
	)
	degraded := &sourceErrors{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.events.Stats(gctx, rng, page)
		if err != nil {
			statsErr = err
			return nil
		}
		stats = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.commerce.ListOrders(gctx, rng)
		if err != nil {
			degraded.add(ctx, s.logg, "commerce", err)
			return nil
		}
		orders = fetched
		ordersOK = true
		return nil
	})
	_ = g.Wait()

	// Without event stats there is no funnel to draw.
	if statsErr != nil {
		return nil, statsErr
	}

	counts := []int64{stats.Sessions, stats.ProductViews, stats.CartAdds, stats.CheckoutsStarted}
	steps := make([]FunnelStep, 0, len(counts)+1)
	for i, count := range counts {
		steps = append(steps, FunnelStep{
			Label: funnelStepLabels[i],
			Count: count,
			Rate:  stepRate(steps, count),
		})
	}
	if ordersOK {
		paid := int64(len(aggregations.FilterPaidOrders(orders)))
		steps = append(steps, FunnelStep{
			Label: "Pedidos pagados",
			Count: paid,
			Rate:  stepRate(steps, paid),
		})
	}

	return &Funnel{Range: rng, Page: page, Steps: steps, Errors: degraded.value()}, nil
}

func stepRate(previous []FunnelStep, count int64) float64 {
	if len(previous) == 0 {
		return 0
	}
	prev := previous[len(previous)-1].Count
	if prev == 0 {
		return 0
	}
	return float64(count) / float64(prev) * 100
}

// SearchEvents is a validated passthrough to the event store.
func (s *service) SearchEvents(ctx context.Context, filter events.SearchFilter) (*events.SearchResult, error) {
	return s.events.Search(ctx, filter)
}

func (s *service) Heatmap(ctx context.Context, rng types.DateRange, page string) ([]events.HeatmapPoint, error) {
	return s.events.Heatmap(ctx, rng, page)
}

func (s *service) ScrollDepth(ctx context.Context, rng types.DateRange, page string) ([]events.ScrollDepthBucket, error) {
	return s.events.ScrollDepth(ctx, rng, page)
}

func (s *service) ProductVisibility(ctx context.Context, rng types.DateRange) ([]events.ProductVisibility, error) {
	return s.events.ProductVisibility(ctx, rng)
}
