package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/panelops/panelops-backend/internal/commerce"
	"github.com/panelops/panelops-backend/internal/events"
	"github.com/panelops/panelops-backend/internal/marketing"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/types"
)

type fakeOrders struct {
	commerce.API
	orders []commerce.Order
	err    error
}

func (f *fakeOrders) ListOrders(context.Context, types.DateRange) ([]commerce.Order, error) {
	return f.orders, f.err
}

type fakeEvents struct {
	events.API
	stats    *events.Stats
	statsErr error
	search   *events.SearchResult
	gotPage  string
}

func (f *fakeEvents) Stats(_ context.Context, _ types.DateRange, page string) (*events.Stats, error) {
	f.gotPage = page
	return f.stats, f.statsErr
}

func (f *fakeEvents) Search(context.Context, events.SearchFilter) (*events.SearchResult, error) {
	return f.search, nil
}

type fakeMarketing struct {
	ads    *marketing.AdsOverview
	adsErr error
	web    *marketing.WebOverview
	webErr error
}

func (f *fakeMarketing) AdsOverview(context.Context, types.DateRange) (*marketing.AdsOverview, error) {
	return f.ads, f.adsErr
}

func (f *fakeMarketing) WebOverview(context.Context, types.DateRange) (*marketing.WebOverview, error) {
	return f.web, f.webErr
}

func analyticsRange(t *testing.T) types.DateRange {
	t.Helper()
	from, _ := time.Parse(time.RFC3339, "2024-03-01T00:00:00Z")
	to, _ := time.Parse(time.RFC3339, "2024-03-31T00:00:00Z")
	return types.DateRange{From: from, To: to}
}

func newAnalytics(c commerce.API, e events.API, m marketing.API) Service {
	return NewService(c, e, m, logger.New(logger.Options{ServiceName: "test"}))
}

func paidOrders(totals ...int64) []commerce.Order {
	orders := make([]commerce.Order, 0, len(totals))
	for _, total := range totals {
		orders = append(orders, commerce.Order{PaymentStatus: commerce.PaymentCaptured, Total: total})
	}
	return orders
}

func TestOverviewComputesROASAndConversion(t *testing.T) {
	svc := newAnalytics(
		&fakeOrders{orders: append(paidOrders(60000, 40000), commerce.Order{PaymentStatus: commerce.PaymentRefunded, Total: 99999})},
		&fakeEvents{},
		&fakeMarketing{
			ads: &marketing.AdsOverview{Spend: decimal.RequireFromString("250.00")},
			web: &marketing.WebOverview{Sessions: 4000},
		},
	)

	overview, err := svc.Overview(context.Background(), analyticsRange(t))
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Commerce == nil || overview.Commerce.Revenue != 100000 || overview.Commerce.PaidOrders != 2 {
		t.Fatalf("commerce block wrong: %+v", overview.Commerce)
	}
	// 100000 minor units = 1000.00 over 250.00 spend.
	if overview.ROAS == nil || !overview.ROAS.Equal(decimal.RequireFromString("4")) {
		t.Fatalf("roas wrong: %v", overview.ROAS)
	}
	if overview.ConversionRate != 0.05 {
		t.Fatalf("conversion rate %f, want 0.05", overview.ConversionRate)
	}
}

func TestOverviewROASNilWithoutSpend(t *testing.T) {
	svc := newAnalytics(
		&fakeOrders{orders: paidOrders(5000)},
		&fakeEvents{},
		&fakeMarketing{ads: &marketing.AdsOverview{}, web: &marketing.WebOverview{}},
	)

	overview, err := svc.Overview(context.Background(), analyticsRange(t))
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.ROAS != nil {
		t.Fatalf("roas should be nil on zero spend, got %v", overview.ROAS)
	}
	if overview.ConversionRate != 0 {
		t.Fatalf("conversion rate should be 0 without sessions: %f", overview.ConversionRate)
	}
}

func TestOverviewDegradesPerSource(t *testing.T) {
	svc := newAnalytics(
		&fakeOrders{orders: paidOrders(5000)},
		&fakeEvents{},
		&fakeMarketing{adsErr: errors.New("ads 503"), web: &marketing.WebOverview{Sessions: 100}},
	)

	overview, err := svc.Overview(context.Background(), analyticsRange(t))
	if err != nil {
		t.Fatalf("overview must not fail on a degraded source: %v", err)
	}
	if overview.Ads != nil || overview.ROAS != nil {
		t.Fatalf("ads-derived values should be absent: %+v", overview)
	}
	if overview.Commerce == nil || overview.Web == nil {
		t.Fatalf("healthy sources lost: %+v", overview)
	}
	if overview.Errors["ads"] == "" {
		t.Fatalf("ads degradation not reported: %+v", overview.Errors)
	}
}

func TestFunnelComposesStepsWithRates(t *testing.T) {
	eventsAPI := &fakeEvents{stats: &events.Stats{
		Sessions:         1000,
		ProductViews:     400,
		CartAdds:         100,
		CheckoutsStarted: 50,
	}}
	svc := newAnalytics(&fakeOrders{orders: paidOrders(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)}, eventsAPI, &fakeMarketing{})

	funnel, err := svc.Funnel(context.Background(), analyticsRange(t), "/productos")
	if err != nil {
		t.Fatalf("funnel: %v", err)
	}
	if eventsAPI.gotPage != "/productos" {
		t.Fatalf("page filter not forwarded: %q", eventsAPI.gotPage)
	}
	if len(funnel.Steps) != 5 {
		t.Fatalf("expected 5 steps, got %+v", funnel.Steps)
	}
	if funnel.Steps[0].Rate != 0 {
		t.Fatalf("first step rate must be 0: %+v", funnel.Steps[0])
	}
	if funnel.Steps[1].Rate != 40 {
		t.Fatalf("product view rate %f, want 40", funnel.Steps[1].Rate)
	}
	last := funnel.Steps[4]
	if last.Label != "Pedidos pagados" || last.Count != 10 || last.Rate != 20 {
		t.Fatalf("paid step wrong: %+v", last)
	}
}

func TestFunnelDegradesWithoutCommerce(t *testing.T) {
	svc := newAnalytics(
		&fakeOrders{err: errors.New("commerce down")},
		&fakeEvents{stats: &events.Stats{Sessions: 10}},
		&fakeMarketing{},
	)

	funnel, err := svc.Funnel(context.Background(), analyticsRange(t), "")
	if err != nil {
		t.Fatalf("funnel: %v", err)
	}
	if len(funnel.Steps) != 4 {
		t.Fatalf("paid step should be dropped, got %+v", funnel.Steps)
	}
	if funnel.Errors["commerce"] == "" {
		t.Fatalf("commerce degradation not reported: %+v", funnel.Errors)
	}
}

func TestFunnelFailsWithoutEventStats(t *testing.T) {
	svc := newAnalytics(&fakeOrders{}, &fakeEvents{statsErr: errors.New("events down")}, &fakeMarketing{})

	if _, err := svc.Funnel(context.Background(), analyticsRange(t), ""); err == nil {
		t.Fatal("expected error when event stats are unavailable")
	}
}
