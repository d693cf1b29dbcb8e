package resellers

import (
	"time"

	"github.com/panelops/panelops-backend/pkg/pagination"
)

// Reseller is a wholesale partner record owned by the reseller backend.
type Reseller struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Status         string    `json:"status"`
	CommissionRate float64   `json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Voucher is a discount code issued to a reseller.
type Voucher struct {
	ID         string     `json:"id"`
	ResellerID string     `json:"reseller_id"`
	Code       string     `json:"code"`
	Percentage float64    `json:"percentage"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListFilter scopes the reseller list.
type ListFilter struct {
	Status     string
	Pagination pagination.Params
}

// ListResult is one page of resellers.
type ListResult struct {
	Resellers []Reseller `json:"resellers"`
	Total     int64      `json:"total"`
}

// CreateInput carries the payload to register a reseller.
type CreateInput struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone,omitempty"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
}

// VoucherInput carries the payload to issue a voucher.
type VoucherInput struct {
	Code       string     `json:"code" validate:"required"`
	Percentage float64    `json:"percentage" validate:"required,gt=0,lte=100"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
