package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any paginated query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs passed through to the event store.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize enforces the configured default and maximum limits and clamps
// negative offsets.
func (p Params) Normalize() Params {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}
