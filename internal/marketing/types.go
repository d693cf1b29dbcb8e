package marketing

import "github.com/shopspring/decimal"

// AdsOverview is the read-only ad-platform aggregate for a range. Spend is a
// decimal string on the wire ("1234.56"); campaigns bid in fractions of a
// cent, so it stays decimal here.
type AdsOverview struct {
	Spend       decimal.Decimal `json:"spend"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
}

// WebOverview is the read-only web-analytics aggregate for a range.
type WebOverview struct {
	Sessions    int64 `json:"sessions"`
	Users       int64 `json:"users"`
	PageViews   int64 `json:"page_views"`
	Conversions int64 `json:"conversions"`
}
