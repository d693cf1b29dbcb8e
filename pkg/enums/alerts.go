package enums

// AlertMetric names a dashboard KPI an alert rule can watch.
type AlertMetric string

const (
	AlertMetricTotalRevenue    AlertMetric = "total_revenue"
	AlertMetricTotalOrders     AlertMetric = "total_orders"
	AlertMetricPaidOrders      AlertMetric = "paid_orders"
	AlertMetricAOV             AlertMetric = "aov"
	AlertMetricUniqueCustomers AlertMetric = "unique_customers"
)

func (m AlertMetric) String() string { return string(m) }

// Valid reports whether the metric is one the evaluator can resolve.
func (m AlertMetric) Valid() bool {
	switch m {
	case AlertMetricTotalRevenue, AlertMetricTotalOrders, AlertMetricPaidOrders,
		AlertMetricAOV, AlertMetricUniqueCustomers:
		return true
	}
	return false
}

// AlertComparison is the direction a rule's threshold is checked in.
type AlertComparison string

const (
	AlertComparisonBelow AlertComparison = "below"
	AlertComparisonAbove AlertComparison = "above"
)

func (c AlertComparison) String() string { return string(c) }

func (c AlertComparison) Valid() bool {
	return c == AlertComparisonBelow || c == AlertComparisonAbove
}
