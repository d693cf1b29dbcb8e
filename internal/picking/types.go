package picking

import (
	"time"

	"github.com/panelops/panelops-backend/pkg/pagination"
)

// Operation is a warehouse picking operation owned by the fulfillment
// backend; this service only proxies it.
type Operation struct {
	ID           string          `json:"id"`
	DisplayID    string          `json:"display_id"`
	OrderID      string          `json:"order_id"`
	Status       string          `json:"status"`
	CustomerName string          `json:"customer_name"`
	Items        []OperationItem `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OperationItem is one line of a picking operation.
type OperationItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	Picked    int64  `json:"picked"`
}

// ListFilter scopes the picking list.
type ListFilter struct {
	Status     string
	Pagination pagination.Params
}

// ListResult is one page of picking operations.
type ListResult struct {
	Operations []Operation `json:"operations"`
	Total      int64       `json:"total"`
}

// ShipInput carries the shipment details for a ship action.
type ShipInput struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
	Carrier        string `json:"carrier" validate:"required"`
}

// ShortageInput resolves a stock shortage on an operation.
type ShortageInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=refund replace remove"`
	Note      string `json:"note,omitempty"`
}
