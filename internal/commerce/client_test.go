package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panelops/panelops-backend/pkg/config"
	"github.com/panelops/panelops-backend/pkg/logger"
	pkgredis "github.com/panelops/panelops-backend/pkg/redis"
	"github.com/panelops/panelops-backend/pkg/restclient"
	"github.com/panelops/panelops-backend/pkg/types"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memoryCache) CacheKey(source string, parts ...string) string {
	key := "po:cache:" + source
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (m *memoryCache) InvalidateSource(_ context.Context, source string) error {
	prefix := "po:cache:" + source + ":"
	for key := range m.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.entries, key)
		}
	}
	return nil
}

func newCommerceClient(t *testing.T, baseURL string, cache *memoryCache) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	rest, err := restclient.New(Source, config.UpstreamConfig{BaseURL: baseURL}, logg)
	if err != nil {
		t.Fatalf("rest client: %v", err)
	}
	var store pkgredis.CacheStore
	if cache != nil {
		store = cache
	}
	return NewClient(rest, store, time.Minute, logg)
}

func testRange(t *testing.T) types.DateRange {
	t.Helper()
	from, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	to, _ := time.Parse(time.RFC3339, "2024-01-31T23:59:59Z")
	return types.DateRange{From: from, To: to}
}

func TestListOrdersParsesSnapshotFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") == "" || r.URL.Query().Get("to") == "" {
			t.Error("range parameters missing")
		}
		w.Write([]byte(`{"orders":[{
			"id":"ord_1","display_id":1001,"created_at":"2024-01-05T10:00:00Z",
			"payment_status":"captured","fulfillment_status":"shipped","total":15000,
			"customer_id":"cus_1","email":"ana@example.com",
			"items":[{"product_id":"prod_1","title":"Remera","quantity":2,"unit_price":7500,"total":15000}],
			"shipping_address":{"phone":"+54 11 5555-0000"}
		}]}`))
	}))
	defer srv.Close()

	orders, err := newCommerceClient(t, srv.URL, nil).ListOrders(context.Background(), testRange(t))
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	order := orders[0]
	if order.PaymentStatus != PaymentCaptured || order.Total != 15000 {
		t.Fatalf("unexpected order %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("line items not decoded: %+v", order.Items)
	}
	if order.ShippingAddress == nil || order.ShippingAddress.Phone == "" {
		t.Fatal("shipping address not decoded")
	}
}

func TestListOrdersServedFromCacheOnSecondCall(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"orders":[{"id":"ord_1","payment_status":"captured","total":100,"created_at":"2024-01-05T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	client := newCommerceClient(t, srv.URL, newMemoryCache())
	rng := testRange(t)

	for i := 0; i < 2; i++ {
		orders, err := client.ListOrders(context.Background(), rng)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if len(orders) != 1 || orders[0].ID != "ord_1" {
			t.Fatalf("call %d: unexpected orders %+v", i, orders)
		}
	}

	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected one upstream hit, got %d", hits)
	}
}

func TestListCustomersDecodesGroupMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/customers":
			w.Write([]byte(`{"customers":[{"id":"cus_1","name":"Ana Pérez","email":"ana@example.com","metadata":{"customer_group":"grp_mayorista","dni":"30123456"}}]}`))
		case "/admin/customer-groups":
			w.Write([]byte(`{"customer_groups":[{"id":"grp_mayorista","name":"Mayorista"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newCommerceClient(t, srv.URL, nil)
	customers, err := client.ListCustomers(context.Background())
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 || customers[0].Metadata.CustomerGroup != "grp_mayorista" {
		t.Fatalf("metadata not decoded: %+v", customers)
	}

	groups, err := client.ListCustomerGroups(context.Background())
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Mayorista" {
		t.Fatalf("groups not decoded: %+v", groups)
	}
}
