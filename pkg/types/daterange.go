package types

import "time"

// DateRange bounds every upstream query and derived metric. End is inclusive
// at second precision, matching how the upstream order API filters.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Duration returns the span of the range.
func (r DateRange) Duration() time.Duration {
	return r.To.Sub(r.From)
}

// Previous returns the range of equal duration immediately before this one,
// used for period-over-period deltas.
func (r DateRange) Previous() DateRange {
	span := r.Duration()
	return DateRange{From: r.From.Add(-span), To: r.From}
}

// CacheKeySuffix renders the range for cache keys, truncated to the second so
// equivalent selections share entries.
func (r DateRange) CacheKeySuffix() string {
	return r.From.UTC().Truncate(time.Second).Format(time.RFC3339) + ":" +
		r.To.UTC().Truncate(time.Second).Format(time.RFC3339)
}
