package marketing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/panelops/panelops-backend/pkg/config"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/restclient"
	"github.com/panelops/panelops-backend/pkg/types"
)

func newMarketingClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	rest, err := restclient.New(Source, config.UpstreamConfig{BaseURL: baseURL}, logg)
	if err != nil {
		t.Fatalf("rest client: %v", err)
	}
	return NewClient(rest, nil, time.Minute, logg)
}

func TestAdsOverviewDecodesDecimalSpend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ads/overview" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"spend":"1234.56","impressions":90000,"clicks":1200,"conversions":85}`))
	}))
	defer srv.Close()

	from, _ := time.Parse(time.RFC3339, "2024-03-01T00:00:00Z")
	to, _ := time.Parse(time.RFC3339, "2024-03-31T00:00:00Z")
	overview, err := newMarketingClient(t, srv.URL).AdsOverview(context.Background(), types.DateRange{From: from, To: to})
	if err != nil {
		t.Fatalf("ads overview: %v", err)
	}
	if !overview.Spend.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("spend not decoded: %s", overview.Spend)
	}
	if overview.Clicks != 1200 {
		t.Fatalf("unexpected overview %+v", overview)
	}
}

func TestWebOverviewDecodesCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web/overview" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"sessions":5000,"users":3800,"page_views":16000,"conversions":120}`))
	}))
	defer srv.Close()

	from, _ := time.Parse(time.RFC3339, "2024-03-01T00:00:00Z")
	to, _ := time.Parse(time.RFC3339, "2024-03-31T00:00:00Z")
	overview, err := newMarketingClient(t, srv.URL).WebOverview(context.Background(), types.DateRange{From: from, To: to})
	if err != nil {
		t.Fatalf("web overview: %v", err)
	}
	if overview.Sessions != 5000 || overview.Conversions != 120 {
		t.Fatalf("unexpected overview %+v", overview)
	}
}
