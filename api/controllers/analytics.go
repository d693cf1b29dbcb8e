package controllers

import (
	"net/http"
	"strings"

	"github.com/panelops/panelops-backend/api/responses"
	"github.com/panelops/panelops-backend/api/validators"
	"github.com/panelops/panelops-backend/internal/analytics"
	"github.com/panelops/panelops-backend/internal/events"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/pagination"
)

// AnalyticsOverview serves the cross-channel overview (spend, traffic,
// revenue, ROAS).
func AnalyticsOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.Overview(r.Context(), rng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AnalyticsFunnel serves the composed purchase funnel, optionally scoped to
// a page URL.
func AnalyticsFunnel(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := strings.TrimSpace(r.URL.Query().Get("page"))
		funnel, err := svc.Funnel(r.Context(), rng, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, funnel)
	}
}

// AnalyticsHeatmap serves click coordinates for one page URL.
func AnalyticsHeatmap(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := strings.TrimSpace(r.URL.Query().Get("page"))
		if page == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "page query parameter required"))
			return
		}

		points, err := svc.Heatmap(r.Context(), rng, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}

// AnalyticsScrollDepth serves scroll-depth buckets for one page URL.
func AnalyticsScrollDepth(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := strings.TrimSpace(r.URL.Query().Get("page"))
		if page == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "page query parameter required"))
			return
		}

		buckets, err := svc.ScrollDepth(r.Context(), rng, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buckets)
	}
}

// AnalyticsProductVisibility serves impression/view counts per product.
func AnalyticsProductVisibility(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ProductVisibility(r.Context(), rng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// EventsSearch is a validated paginated passthrough to the event store.
func EventsSearch(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 25, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filter := events.SearchFilter{
			Range:      rng,
			Type:       strings.TrimSpace(query.Get("event_type")),
			Source:     strings.TrimSpace(query.Get("source")),
			CustomerID: strings.TrimSpace(query.Get("customer_id")),
			Page:       strings.TrimSpace(query.Get("page")),
			Pagination: pagination.Params{Limit: limit, Offset: offset},
		}

		result, err := svc.SearchEvents(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
