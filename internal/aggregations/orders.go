// Package aggregations holds the pure reductions behind every dashboard
// number. Every function is deterministic, tolerates empty or partial input,
// and never mutates its arguments. Revenue-bearing aggregates only count
// orders whose payment was captured; order counts include every payment
// state.
package aggregations

import (
	"sort"

	"github.com/panelops/panelops-backend/internal/commerce"
)

// DailyRevenue is one day of paid revenue, dates formatted YYYY-MM-DD (UTC).
type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Orders  int    `json:"orders"`
}

// StatusCount is one slice of a status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ProductRevenue ranks one product by paid revenue.
type ProductRevenue struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Revenue   int64  `json:"revenue"`
	Quantity  int64  `json:"quantity"`
}

// PeriodMetrics carries the headline KPIs plus period-over-period deltas.
// AOV is integer minor units, truncated. Every *Change field is a percentage
// and is 0 when the previous period's value was 0.
type PeriodMetrics struct {
	TotalRevenue     int64   `json:"total_revenue"`
	TotalOrders      int     `json:"total_orders"`
	PaidOrders       int     `json:"paid_orders"`
	AOV              int64   `json:"aov"`
	UniqueCustomers  int     `json:"unique_customers"`
	RevenueChange    float64 `json:"revenue_change"`
	OrdersChange     float64 `json:"orders_change"`
	PaidOrdersChange float64 `json:"paid_orders_change"`
	AOVChange        float64 `json:"aov_change"`
	CustomersChange  float64 `json:"customers_change"`
}

// FilterPaidOrders keeps only orders whose payment was captured. Every
// revenue-bearing aggregation in this package starts here.
func FilterPaidOrders(orders []commerce.Order) []commerce.Order {
	paid := make([]commerce.Order, 0, len(orders))
	for _, order := range orders {
		if order.PaymentStatus == commerce.PaymentCaptured {
			paid = append(paid, order)
		}
	}
	return paid
}

// RevenueByDay groups paid orders by UTC calendar day, ascending by date.
func RevenueByDay(orders []commerce.Order) []DailyRevenue {
	type bucket struct {
		revenue int64
		orders  int
	}
	byDay := map[string]*bucket{}
	for _, order := range FilterPaidOrders(orders) {
		if order.CreatedAt.IsZero() {
			continue
		}
		day := order.CreatedAt.UTC().Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}
		b.revenue += order.Total
		b.orders++
	}

	series := make([]DailyRevenue, 0, len(byDay))
	for day, b := range byDay {
		series = append(series, DailyRevenue{Date: day, Revenue: b.revenue, Orders: b.orders})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

var paymentStatusLabels = map[commerce.PaymentStatus]string{
	commerce.PaymentCaptured:          "Pagado",
	commerce.PaymentAuthorized:        "Autorizado",
	commerce.PaymentNotPaid:           "Sin pagar",
	commerce.PaymentCanceled:          "Cancelado",
	commerce.PaymentPartiallyCaptured: "Pago parcial",
	commerce.PaymentRefunded:          "Reembolsado",
	commerce.PaymentPartiallyRefunded: "Reembolso parcial",
	commerce.PaymentRequiresAction:    "Requiere acción",
}

var fulfillmentStatusLabels = map[commerce.FulfillmentStatus]string{
	commerce.FulfillmentNotFulfilled:       "Sin preparar",
	commerce.FulfillmentFulfilled:          "Preparado",
	commerce.FulfillmentPartiallyFulfilled: "Preparado parcial",
	commerce.FulfillmentShipped:            "Enviado",
	commerce.FulfillmentPartiallyShipped:   "Envío parcial",
	commerce.FulfillmentDelivered:          "Entregado",
	commerce.FulfillmentPartiallyDelivered: "Entrega parcial",
	commerce.FulfillmentCanceled:           "Cancelado",
	commerce.FulfillmentReturned:           "Devuelto",
	commerce.FulfillmentPartiallyReturned:  "Devolución parcial",
}

// CountByPaymentStatus buckets ALL orders by payment status, falling back to
// the generic status field when payment_status is absent. Every order lands
// in exactly one bucket.
func CountByPaymentStatus(orders []commerce.Order) []StatusCount {
	counts := map[string]int{}
	for _, order := range orders {
		key := string(order.PaymentStatus)
		if key == "" {
			key = order.Status
		}
		label, ok := paymentStatusLabels[commerce.PaymentStatus(key)]
		if !ok {
			label = key
			if label == "" {
				label = "Desconocido"
			}
		}
		counts[label]++
	}
	return sortedStatusCounts(counts)
}

// CountByFulfillmentStatus buckets ALL orders by fulfillment status.
func CountByFulfillmentStatus(orders []commerce.Order) []StatusCount {
	counts := map[string]int{}
	for _, order := range orders {
		key := string(order.FulfillmentStatus)
		label, ok := fulfillmentStatusLabels[commerce.FulfillmentStatus(key)]
		if !ok {
			label = key
			if label == "" {
				label = "Desconocido"
			}
		}
		counts[label]++
	}
	return sortedStatusCounts(counts)
}

func sortedStatusCounts(counts map[string]int) []StatusCount {
	result := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Status < result[j].Status
	})
	return result
}

// TopProducts ranks products by paid revenue. The grouping key falls back
// product_id, then variant_id, then title; line revenue prefers the explicit
// line total and falls back to unit_price times quantity. Orders without
// line items contribute nothing.
func TopProducts(orders []commerce.Order) []ProductRevenue {
	type bucket struct {
		name     string
		revenue  int64
		quantity int64
	}
	byProduct := map[string]*bucket{}
	for _, order := range FilterPaidOrders(orders) {
		for _, item := range order.Items {
			key := item.ProductID
			if key == "" {
				key = item.VariantID
			}
			if key == "" {
				key = item.Title
			}
			if key == "" {
				continue
			}
			revenue := item.Total
			if revenue == 0 {
				revenue = item.UnitPrice * item.Quantity
			}
			b, ok := byProduct[key]
			if !ok {
				b = &bucket{name: item.Title}
				byProduct[key] = b
			}
			if b.name == "" {
				b.name = item.Title
			}
			b.revenue += revenue
			b.quantity += item.Quantity
		}
	}

	ranked := make([]ProductRevenue, 0, len(byProduct))
	for key, b := range byProduct {
		ranked = append(ranked, ProductRevenue{
			ProductID: key,
			Name:      b.name,
			Revenue:   b.revenue,
			Quantity:  b.quantity,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	return ranked
}

// CalculateMetrics computes the headline KPIs for a period and the
// percentage deltas against the previous period's orders.
func CalculateMetrics(orders, previousOrders []commerce.Order) PeriodMetrics {
	current := periodSnapshot(orders)
	previous := periodSnapshot(previousOrders)

	return PeriodMetrics{
		TotalRevenue:     current.revenue,
		TotalOrders:      current.total,
		PaidOrders:       current.paid,
		AOV:              current.aov,
		UniqueCustomers:  current.customers,
		RevenueChange:    percentChange(float64(current.revenue), float64(previous.revenue)),
		OrdersChange:     percentChange(float64(current.total), float64(previous.total)),
		PaidOrdersChange: percentChange(float64(current.paid), float64(previous.paid)),
		AOVChange:        percentChange(float64(current.aov), float64(previous.aov)),
		CustomersChange:  percentChange(float64(current.customers), float64(previous.customers)),
	}
}

type snapshot struct {
	revenue   int64
	total     int
	paid      int
	aov       int64
	customers int
}

func periodSnapshot(orders []commerce.Order) snapshot {
	s := snapshot{total: len(orders)}
	seen := map[string]struct{}{}
	for _, order := range FilterPaidOrders(orders) {
		s.paid++
		s.revenue += order.Total
		if order.CustomerID != "" {
			seen[order.CustomerID] = struct{}{}
		}
	}
	s.customers = len(seen)
	if s.paid > 0 {
		s.aov = s.revenue / int64(s.paid)
	}
	return s
}

// percentChange is 0 when the previous value is 0. That understates a
// genuine went-from-nothing-to-something move, but it is the established
// product behavior and keeps the field free of NaN and Inf.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
