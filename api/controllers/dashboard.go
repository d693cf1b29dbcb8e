package controllers

import (
	"net/http"

	"github.com/panelops/panelops-backend/api/responses"
	"github.com/panelops/panelops-backend/internal/dashboard"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
)

// DashboardSummary serves the main dashboard: metrics, revenue series,
// status breakdowns, top products, group revenue, and triggered alerts.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), rng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// DashboardCustomers serves the enriched customer list with churn buckets.
func DashboardCustomers(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		rng, err := ResolveDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Customers(r.Context(), rng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
