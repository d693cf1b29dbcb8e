package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
)

func TestResolveDateRangeExplicitPair(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/dashboard/summary?from=2024-03-01T00:00:00Z&to=2024-03-31T00:00:00Z", nil)

	rng, err := ResolveDateRange(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rng.From.Format(time.RFC3339) != "2024-03-01T00:00:00Z" || rng.To.Format(time.RFC3339) != "2024-03-31T00:00:00Z" {
		t.Fatalf("unexpected range %+v", rng)
	}
}

func TestResolveDateRangeDefaultsToThirtyDays(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2024-04-01T12:00:00Z")
	restore := timeNowUTC
	timeNowUTC = func() time.Time { return now }
	defer func() { timeNowUTC = restore }()

	req := httptest.NewRequest("GET", "/api/v1/dashboard/summary", nil)
	rng, err := ResolveDateRange(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !rng.To.Equal(now) || !rng.From.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("unexpected default range %+v", rng)
	}
}

func TestResolveDateRangePresets(t *testing.T) {
	now, _ := time.Parse(time.RFC3339, "2024-04-01T12:00:00Z")
	restore := timeNowUTC
	timeNowUTC = func() time.Time { return now }
	defer func() { timeNowUTC = restore }()

	for preset, days := range map[string]int{"7d": 7, "30d": 30, "90d": 90} {
		req := httptest.NewRequest("GET", "/api/v1/dashboard/summary?preset="+preset, nil)
		rng, err := ResolveDateRange(req)
		if err != nil {
			t.Fatalf("preset %s: %v", preset, err)
		}
		if !rng.From.Equal(now.AddDate(0, 0, -days)) {
			t.Fatalf("preset %s from %v, want %v back", preset, rng.From, days)
		}
	}
}

func TestResolveDateRangeRejectsBadInput(t *testing.T) {
	cases := []string{
		"/x?from=2024-03-01T00:00:00Z",                          // missing to
		"/x?from=not-a-date&to=2024-03-31T00:00:00Z",            // bad from
		"/x?from=2024-03-31T00:00:00Z&to=2024-03-01T00:00:00Z",  // inverted
		"/x?preset=365d",                                        // unknown preset
	}
	for _, target := range cases {
		req := httptest.NewRequest("GET", target, nil)
		_, err := ResolveDateRange(req)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", target, err)
		}
	}
}
