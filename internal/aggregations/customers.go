package aggregations

import (
	"sort"
	"strings"
	"time"

	"github.com/panelops/panelops-backend/internal/commerce"
)

// DefaultCustomerGroup is assumed for customers without a group tag.
const DefaultCustomerGroup = "Minorista"

// CustomerMetrics is a customer enriched with their paid purchase history.
// LastOrderDate and DaysSinceLastOrder stay nil for customers who never
// completed a purchase.
type CustomerMetrics struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Group              string     `json:"group"`
	DNI                string     `json:"dni,omitempty"`
	TotalSpent         int64      `json:"total_spent"`
	OrderCount         int        `json:"order_count"`
	AvgOrderValue      int64      `json:"avg_order_value"`
	LastOrderDate      *time.Time `json:"last_order_date"`
	DaysSinceLastOrder *int       `json:"days_since_last_order"`
	CreatedAt          time.Time  `json:"created_at"`
}

// GroupRevenue is paid revenue attributed to one customer group.
type GroupRevenue struct {
	Group     string `json:"group"`
	Revenue   int64  `json:"revenue"`
	Orders    int    `json:"orders"`
	Customers int    `json:"customers"`
}

// ChurnBucket is one recency band of the churn distribution.
type ChurnBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// customerOrders indexes a customer's paid orders by id, with a
// case-insensitive email fallback for orders placed before the customer
// account existed.
type customerOrders struct {
	byID    map[string][]commerce.Order
	byEmail map[string][]commerce.Order
}

func indexPaidOrders(orders []commerce.Order) customerOrders {
	idx := customerOrders{
		byID:    map[string][]commerce.Order{},
		byEmail: map[string][]commerce.Order{},
	}
	for _, order := range FilterPaidOrders(orders) {
		if order.CustomerID != "" {
			idx.byID[order.CustomerID] = append(idx.byID[order.CustomerID], order)
		}
		if email := normalizeEmail(order.Email); email != "" {
			idx.byEmail[email] = append(idx.byEmail[email], order)
		}
	}
	return idx
}

// ordersFor resolves a customer's paid orders, matching by id first and
// falling back to email only when no order carries the id. Mixing both would
// double-count orders that have id and email set.
func (idx customerOrders) ordersFor(customer commerce.Customer) []commerce.Order {
	if matched := idx.byID[customer.ID]; len(matched) > 0 {
		return matched
	}
	return idx.byEmail[normalizeEmail(customer.Email)]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnrichCustomers joins customers with their paid order history. now anchors
// the days-since-last-order calculation so callers and tests share a clock.
func EnrichCustomers(customers []commerce.Customer, orders []commerce.Order, now time.Time) []CustomerMetrics {
	idx := indexPaidOrders(orders)

	enriched := make([]CustomerMetrics, 0, len(customers))
	for _, customer := range customers {
		metrics := CustomerMetrics{
			ID:        customer.ID,
			Name:      customer.Name,
			Email:     customer.Email,
			Phone:     customer.Phone,
			Group:     groupOf(customer),
			DNI:       customer.Metadata.DNI,
			CreatedAt: customer.CreatedAt,
		}

		var last time.Time
		for _, order := range idx.ordersFor(customer) {
			metrics.TotalSpent += order.Total
			metrics.OrderCount++
			if order.CreatedAt.After(last) {
				last = order.CreatedAt
			}
			if metrics.Phone == "" && order.ShippingAddress != nil {
				metrics.Phone = order.ShippingAddress.Phone
			}
		}
		if metrics.OrderCount > 0 {
			metrics.AvgOrderValue = metrics.TotalSpent / int64(metrics.OrderCount)
			lastCopy := last
			metrics.LastOrderDate = &lastCopy
			days := int(now.Sub(last).Hours() / 24)
			metrics.DaysSinceLastOrder = &days
		}
		enriched = append(enriched, metrics)
	}
	return enriched
}

func groupOf(customer commerce.Customer) string {
	if group := strings.TrimSpace(customer.Metadata.CustomerGroup); group != "" {
		return group
	}
	return DefaultCustomerGroup
}

// ResolveGroups rewrites group ids in customer metadata to group names. Ids
// that match no known group pass through untouched.
func ResolveGroups(customers []commerce.Customer, groups []commerce.CustomerGroup) []commerce.Customer {
	names := make(map[string]string, len(groups))
	for _, group := range groups {
		names[group.ID] = group.Name
	}

	resolved := make([]commerce.Customer, len(customers))
	copy(resolved, customers)
	for i := range resolved {
		if name, ok := names[resolved[i].Metadata.CustomerGroup]; ok {
			resolved[i].Metadata.CustomerGroup = name
		}
	}
	return resolved
}

// RevenueByGroup attributes paid revenue to customer groups, sorted by
// revenue descending. Orders that match no known customer are grouped under
// the default group.
func RevenueByGroup(orders []commerce.Order, customers []commerce.Customer) []GroupRevenue {
	groupByID := map[string]string{}
	groupByEmail := map[string]string{}
	for _, customer := range customers {
		group := groupOf(customer)
		if customer.ID != "" {
			groupByID[customer.ID] = group
		}
		if email := normalizeEmail(customer.Email); email != "" {
			if _, taken := groupByEmail[email]; !taken {
				groupByEmail[email] = group
			}
		}
	}

	type bucket struct {
		revenue   int64
		orders    int
		customers map[string]struct{}
	}
	byGroup := map[string]*bucket{}
	for _, order := range FilterPaidOrders(orders) {
		group, ok := groupByID[order.CustomerID]
		if !ok {
			group, ok = groupByEmail[normalizeEmail(order.Email)]
		}
		if !ok {
			group = DefaultCustomerGroup
		}
		b, found := byGroup[group]
		if !found {
			b = &bucket{customers: map[string]struct{}{}}
			byGroup[group] = b
		}
		b.revenue += order.Total
		b.orders++
		switch {
		case order.CustomerID != "":
			b.customers[order.CustomerID] = struct{}{}
		case normalizeEmail(order.Email) != "":
			b.customers["email:"+normalizeEmail(order.Email)] = struct{}{}
		}
	}

	result := make([]GroupRevenue, 0, len(byGroup))
	for group, b := range byGroup {
		result = append(result, GroupRevenue{
			Group:     group,
			Revenue:   b.revenue,
			Orders:    b.orders,
			Customers: len(b.customers),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Group < result[j].Group
	})
	return result
}

type churnBand struct {
	label   string
	color   string
	maxDays int
}

// Band bounds are inclusive: a customer at exactly 30 days is still "0-30".
var churnBands = []churnBand{
	{label: "0-30 días", color: "#22c55e", maxDays: 30},
	{label: "31-60 días", color: "#eab308", maxDays: 60},
	{label: "61-90 días", color: "#f97316", maxDays: 90},
	{label: "+90 días", color: "#ef4444", maxDays: -1},
}

var neverPurchasedBand = churnBand{label: "Sin compras", color: "#94a3b8"}

// ChurnDistribution buckets enriched customers by purchase recency. Empty
// buckets are omitted so the chart never renders zero slices.
func ChurnDistribution(customers []CustomerMetrics) []ChurnBucket {
	counts := make(map[string]int, len(churnBands)+1)
	for _, customer := range customers {
		if customer.DaysSinceLastOrder == nil {
			counts[neverPurchasedBand.label]++
			continue
		}
		days := *customer.DaysSinceLastOrder
		for _, band := range churnBands {
			if band.maxDays < 0 || days <= band.maxDays {
				counts[band.label]++
				break
			}
		}
	}

	ordered := append(append([]churnBand{}, churnBands...), neverPurchasedBand)
	buckets := make([]ChurnBucket, 0, len(ordered))
	for _, band := range ordered {
		if count := counts[band.label]; count > 0 {
			buckets = append(buckets, ChurnBucket{Label: band.label, Count: count, Color: band.color})
		}
	}
	return buckets
}
