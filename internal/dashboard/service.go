// Package dashboard composes upstream commerce data, the aggregation layer,
// and alert evaluation into the dashboard read models. Upstream fetches run
// concurrently and every widget block degrades on its own: a failed source
// yields a nil block plus an entry in Errors, never a failed response.
package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/panelops/panelops-backend/internal/aggregations"
	"github.com/panelops/panelops-backend/internal/alerts"
	"github.com/panelops/panelops-backend/internal/commerce"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/types"
)

// timeNow is swapped in tests to pin recency calculations.
var timeNow = func() time.Time { return time.Now().UTC() }

// Summary is the main dashboard payload. Blocks are nil when their source
// failed; Errors maps block name to a short failure description.
type Summary struct {
	Range             types.DateRange               `json:"range"`
	Metrics           *aggregations.PeriodMetrics   `json:"metrics"`
	RevenueByDay      []aggregations.DailyRevenue   `json:"revenue_by_day"`
	PaymentStatus     []aggregations.StatusCount    `json:"payment_status"`
	FulfillmentStatus []aggregations.StatusCount    `json:"fulfillment_status"`
	TopProducts       []aggregations.ProductRevenue `json:"top_products"`
	RevenueByGroup    []aggregations.GroupRevenue   `json:"revenue_by_group"`
	Alerts            []alerts.TriggeredAlert       `json:"alerts"`
	Errors            map[string]string             `json:"errors,omitempty"`
}

// CustomerReport is the customer-page payload.
type CustomerReport struct {
	Range     types.DateRange                `json:"range"`
	Customers []aggregations.CustomerMetrics `json:"customers"`
	Churn     []aggregations.ChurnBucket     `json:"churn"`
	Errors    map[string]string              `json:"errors,omitempty"`
}

// Service builds the dashboard pages.
type Service interface {
	Summary(ctx context.Context, rng types.DateRange) (*Summary, error)
	Customers(ctx context.Context, rng types.DateRange) (*CustomerReport, error)
}

type service struct {
	commerce commerce.API
	alerts   alerts.Service
	logg     *logger.Logger
}

// NewService wires the dashboard over the commerce source and alert store.
// alertSvc may be nil when alerting is not configured.
func NewService(commerceAPI commerce.API, alertSvc alerts.Service, logg *logger.Logger) Service {
	return &service{commerce: commerceAPI, alerts: alertSvc, logg: logg}
}

// blockErrors collects per-widget failures from concurrent fetches.
type blockErrors struct {
	mu     sync.Mutex
	errors map[string]string
}

func (b *blockErrors) add(ctx context.Context, logg *logger.Logger, block string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.errors == nil {
		b.errors = map[string]string{}
	}
	b.errors[block] = err.Error()
	logg.Warn(logg.WithField(ctx, "block", block), "dashboard block degraded")
}

func (b *blockErrors) value() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errors
}

func (s *service) Summary(ctx context.Context, rng types.DateRange) (*Summary, error) {
	var (
		orders         []commerce.Order
		previousOrders []commerce.Order
		customers      []commerce.Customer
		groups         []commerce.CustomerGroup

		ordersErr    bool
		customersErr bool
		previousErr  bool
	)
	degraded := &blockErrors{}

	// The group context is deliberately not used to cancel siblings: one
	// failed source must not take down the other widgets.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.commerce.ListOrders(gctx, rng)
		if err != nil {
			ordersErr = true
			degraded.add(ctx, s.logg, "orders", err)
			return nil
		}
		orders = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.commerce.ListOrders(gctx, rng.Previous())
		if err != nil {
			previousErr = true
			degraded.add(ctx, s.logg, "previous_period", err)
			return nil
		}
		previousOrders = fetched
		return nil
	})
	g.Go(func() error {
		fetchedCustomers, err := s.commerce.ListCustomers(gctx)
		if err != nil {
			customersErr = true
			degraded.add(ctx, s.logg, "revenue_by_group", err)
			return nil
		}
		fetchedGroups, err := s.commerce.ListCustomerGroups(gctx)
		if err != nil {
			customersErr = true
			degraded.add(ctx, s.logg, "revenue_by_group", err)
			return nil
		}
		customers = fetchedCustomers
		groups = fetchedGroups
		return nil
	})
	_ = g.Wait()

	summary := &Summary{Range: rng}

	if !ordersErr {
		metrics := aggregations.CalculateMetrics(orders, previousOrders)
		summary.Metrics = &metrics
		summary.RevenueByDay = aggregations.RevenueByDay(orders)
		summary.PaymentStatus = aggregations.CountByPaymentStatus(orders)
		summary.FulfillmentStatus = aggregations.CountByFulfillmentStatus(orders)
		summary.TopProducts = aggregations.TopProducts(orders)

		if !customersErr {
			resolved := aggregations.ResolveGroups(customers, groups)
			summary.RevenueByGroup = aggregations.RevenueByGroup(orders, resolved)
		}

		if s.alerts != nil {
			triggered, err := s.alerts.Evaluate(ctx, metrics)
			if err != nil {
				degraded.add(ctx, s.logg, "alerts", err)
			} else {
				summary.Alerts = triggered
			}
		}
	}
	_ = previousErr // deltas silently compare against an empty previous period

	summary.Errors = degraded.value()
	return summary, nil
}

func (s *service) Customers(ctx context.Context, rng types.DateRange) (*CustomerReport, error) {
	var (
		orders    []commerce.Order
		customers []commerce.Customer
		groups    []commerce.CustomerGroup

		customersErr error
	)
	degraded := &blockErrors{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := s.commerce.ListOrders(gctx, rng)
		if err != nil {
			// History enrichment degrades to zeroed purchase stats.
			degraded.add(ctx, s.logg, "orders", err)
			return nil
		}
		orders = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.commerce.ListCustomers(gctx)
		if err != nil {
			customersErr = err
			return nil
		}
		customers = fetched
		return nil
	})
	g.Go(func() error {
		fetched, err := s.commerce.ListCustomerGroups(gctx)
		if err != nil {
			degraded.add(ctx, s.logg, "groups", err)
			return nil
		}
		groups = fetched
		return nil
	})
	_ = g.Wait()

	// The page is the customer list; without it there is nothing to degrade to.
	if customersErr != nil {
		return nil, customersErr
	}

	resolved := aggregations.ResolveGroups(customers, groups)
	enriched := aggregations.EnrichCustomers(resolved, orders, timeNow())

	return &CustomerReport{
		Range:     rng,
		Customers: enriched,
		Churn:     aggregations.ChurnDistribution(enriched),
		Errors:    degraded.value(),
	}, nil
}
