package campaigns

import (
	"time"

	"github.com/panelops/panelops-backend/pkg/pagination"
)

// Campaign is an email campaign owned by the marketing backend.
type Campaign struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	Status      string     `json:"status"`
	Segment     string     `json:"segment,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	Recipients  int64      `json:"recipients"`
	OpenRate    float64    `json:"open_rate"`
	ClickRate   float64    `json:"click_rate"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListFilter scopes the campaign list.
type ListFilter struct {
	Status     string
	Pagination pagination.Params
}

// ListResult is one page of campaigns.
type ListResult struct {
	Campaigns []Campaign `json:"campaigns"`
	Total     int64      `json:"total"`
}

// CreateInput carries the payload to create a campaign.
type CreateInput struct {
	Name        string     `json:"name" validate:"required"`
	Subject     string     `json:"subject" validate:"required"`
	Segment     string     `json:"segment,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// UpdateInput carries optional mutation values for a campaign.
type UpdateInput struct {
	Name        *string    `json:"name,omitempty"`
	Subject     *string    `json:"subject,omitempty"`
	Segment     *string    `json:"segment,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// SendTestInput addresses a test send.
type SendTestInput struct {
	Email string `json:"email" validate:"required,email"`
}

// EmailConfig is the account-wide email-marketing configuration.
type EmailConfig struct {
	SenderName     string `json:"sender_name"`
	SenderEmail    string `json:"sender_email"`
	ReplyTo        string `json:"reply_to,omitempty"`
	DoubleOptIn    bool   `json:"double_opt_in"`
	UnsubscribeURL string `json:"unsubscribe_url,omitempty"`
}

// EmailConfigInput carries the payload to replace the configuration.
type EmailConfigInput struct {
	SenderName     string `json:"sender_name" validate:"required"`
	SenderEmail    string `json:"sender_email" validate:"required,email"`
	ReplyTo        string `json:"reply_to,omitempty" validate:"omitempty,email"`
	DoubleOptIn    bool   `json:"double_opt_in"`
	UnsubscribeURL string `json:"unsubscribe_url,omitempty" validate:"omitempty,url"`
}
