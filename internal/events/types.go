package events

import (
	"time"

	"github.com/panelops/panelops-backend/pkg/pagination"
	"github.com/panelops/panelops-backend/pkg/types"
)

// Event is a generic behavioral record owned by the external event store.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"event_type"`
	Timestamp  time.Time      `json:"timestamp"`
	Source     string         `json:"source"`
	CustomerID string         `json:"customer_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Stats summarizes the behavioral counters for a range.
type Stats struct {
	Sessions         int64 `json:"sessions"`
	ProductViews     int64 `json:"product_views"`
	CartAdds         int64 `json:"cart_adds"`
	CheckoutsStarted int64 `json:"checkouts_started"`
}

// FunnelStep is one stage of the event store's funnel response.
type FunnelStep struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// SearchFilter scopes an event search. Zero-value fields are omitted from
// the query.
type SearchFilter struct {
	Range      types.DateRange
	Type       string
	Source     string
	CustomerID string
	Page       string
	Pagination pagination.Params
}

// SearchResult is one page of filtered events.
type SearchResult struct {
	Events []Event `json:"events"`
	Total  int64   `json:"total"`
}

// HeatmapPoint is a click coordinate bucket for one page URL.
type HeatmapPoint struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Count int64 `json:"count"`
}

// ScrollDepthBucket counts sessions that reached a depth percentage.
type ScrollDepthBucket struct {
	Depth int   `json:"depth"`
	Count int64 `json:"count"`
}

// ProductVisibility reports impressions and clicks per product.
type ProductVisibility struct {
	ProductID   string `json:"product_id"`
	Title       string `json:"title"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
}
