package commerce

import "time"

// PaymentStatus mirrors the order payment lifecycle owned by the commerce
// platform. Only PaymentCaptured counts as real revenue.
type PaymentStatus string

const (
	PaymentCaptured          PaymentStatus = "captured"
	PaymentAuthorized        PaymentStatus = "authorized"
	PaymentNotPaid           PaymentStatus = "not_paid"
	PaymentCanceled          PaymentStatus = "canceled"
	PaymentPartiallyCaptured PaymentStatus = "partially_captured"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentRequiresAction    PaymentStatus = "requires_action"
)

// FulfillmentStatus mirrors the fulfillment lifecycle owned by the commerce
// platform.
type FulfillmentStatus string

const (
	FulfillmentNotFulfilled       FulfillmentStatus = "not_fulfilled"
	FulfillmentFulfilled          FulfillmentStatus = "fulfilled"
	FulfillmentPartiallyFulfilled FulfillmentStatus = "partially_fulfilled"
	FulfillmentShipped            FulfillmentStatus = "shipped"
	FulfillmentPartiallyShipped   FulfillmentStatus = "partially_shipped"
	FulfillmentDelivered          FulfillmentStatus = "delivered"
	FulfillmentPartiallyDelivered FulfillmentStatus = "partially_delivered"
	FulfillmentCanceled           FulfillmentStatus = "canceled"
	FulfillmentReturned           FulfillmentStatus = "returned"
	FulfillmentPartiallyReturned  FulfillmentStatus = "partially_returned"
)

// LineItem is one purchased product line. Totals are minor-unit currency.
type LineItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// ShippingAddress is read only for phone backfill during customer enrichment.
type ShippingAddress struct {
	Phone      string `json:"phone"`
	Address1   string `json:"address_1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Province   string `json:"province"`
}

// Order is a read-only snapshot from the commerce platform. This service
// never mutates orders; it only reduces them.
type Order struct {
	ID                string            `json:"id"`
	DisplayID         int64             `json:"display_id"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Status            string            `json:"status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	Total             int64             `json:"total"`
	CustomerID        string            `json:"customer_id,omitempty"`
	Email             string            `json:"email"`
	Items             []LineItem        `json:"items"`
	ShippingAddress   *ShippingAddress  `json:"shipping_address,omitempty"`
}

// CustomerMetadata carries the free-form tags the back office sets upstream.
type CustomerMetadata struct {
	CustomerGroup string `json:"customer_group,omitempty"`
	DNI           string `json:"dni,omitempty"`
}

// Customer is a read-only snapshot from the commerce platform.
type Customer struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Metadata  CustomerMetadata `json:"metadata"`
	CreatedAt time.Time        `json:"created_at"`
}

// CustomerGroup resolves group ids to display names.
type CustomerGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
