package controllers

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/types"
)

// timeNowUTC is swapped in tests to pin preset resolution.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

var presetDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

const defaultPreset = "30d"

// ResolveDateRange reads the period selection from the query string: either
// an explicit from/to RFC3339 pair or a preset (7d/30d/90d, default 30d).
func ResolveDateRange(r *http.Request) (types.DateRange, error) {
	query := r.URL.Query()
	fromRaw := strings.TrimSpace(query.Get("from"))
	toRaw := strings.TrimSpace(query.Get("to"))

	if fromRaw != "" || toRaw != "" {
		if fromRaw == "" || toRaw == "" {
			return types.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		from, err := time.Parse(time.RFC3339, fromRaw)
		if err != nil {
			return types.DateRange{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date").WithDetails(map[string]any{"field": "from"})
		}
		to, err := time.Parse(time.RFC3339, toRaw)
		if err != nil {
			return types.DateRange{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date").WithDetails(map[string]any{"field": "to"})
		}
		if !from.Before(to) {
			return types.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "from must be before to")
		}
		return types.DateRange{From: from.UTC(), To: to.UTC()}, nil
	}

	preset := strings.TrimSpace(query.Get("preset"))
	if preset == "" {
		preset = defaultPreset
	}
	days, ok := presetDays[preset]
	if !ok {
		return types.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown preset").WithDetails(map[string]any{"field": "preset", "allowed": "7d, 30d, 90d"})
	}

	now := timeNowUTC()
	return types.DateRange{From: now.AddDate(0, 0, -days), To: now}, nil
}
