package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/panelops/panelops-backend/api/controllers"
	"github.com/panelops/panelops-backend/api/middleware"
	"github.com/panelops/panelops-backend/internal/alerts"
	"github.com/panelops/panelops-backend/internal/analytics"
	"github.com/panelops/panelops-backend/internal/campaigns"
	"github.com/panelops/panelops-backend/internal/dashboard"
	"github.com/panelops/panelops-backend/internal/picking"
	"github.com/panelops/panelops-backend/internal/resellers"
	"github.com/panelops/panelops-backend/pkg/config"
	"github.com/panelops/panelops-backend/pkg/logger"
	"github.com/panelops/panelops-backend/pkg/metrics"
	pkgredis "github.com/panelops/panelops-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers. Optional pieces
// (metrics, idempotency store, health checks) may be nil and the matching
// middleware or endpoint is skipped.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	RequestMetrics   *metrics.RequestMetrics
	Registry         *prometheus.Registry
	IdempotencyStore pkgredis.IdempotencyStore

	Dashboard dashboard.Service
	Analytics analytics.Service
	Alerts    alerts.Service
	Picking   picking.Service
	Resellers resellers.Service
	Campaigns campaigns.Service

	HealthChecks []controllers.HealthCheck
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if deps.RequestMetrics != nil {
		r.Use(middleware.Metrics(deps.RequestMetrics))
	}
	r.Use(middleware.CORS(cfg.CORS))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthChecks...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if deps.IdempotencyStore != nil {
			r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))
		}

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", controllers.DashboardSummary(deps.Dashboard, logg))
			r.Get("/customers", controllers.DashboardCustomers(deps.Dashboard, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/overview", controllers.AnalyticsOverview(deps.Analytics, logg))
			r.Get("/funnel", controllers.AnalyticsFunnel(deps.Analytics, logg))
			r.Get("/heatmap", controllers.AnalyticsHeatmap(deps.Analytics, logg))
			r.Get("/scroll-depth", controllers.AnalyticsScrollDepth(deps.Analytics, logg))
			r.Get("/product-visibility", controllers.AnalyticsProductVisibility(deps.Analytics, logg))
		})

		r.Get("/events/search", controllers.EventsSearch(deps.Analytics, logg))

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.ListAlerts(deps.Alerts, logg))
			r.Post("/", controllers.CreateAlert(deps.Alerts, logg))
			r.Patch("/{id}", controllers.UpdateAlert(deps.Alerts, logg))
			r.Delete("/{id}", controllers.DeleteAlert(deps.Alerts, logg))
		})

		r.Route("/picking", func(r chi.Router) {
			r.Get("/", controllers.ListPicking(deps.Picking, logg))
			r.Get("/{id}", controllers.GetPicking(deps.Picking, logg))
			r.Post("/{id}/ship", controllers.ShipPicking(deps.Picking, logg))
			r.Post("/{id}/deliver", controllers.DeliverPicking(deps.Picking, logg))
			r.Post("/{id}/resolve-shortage", controllers.ResolvePickingShortage(deps.Picking, logg))
		})

		r.Route("/resellers", func(r chi.Router) {
			r.Get("/", controllers.ListResellers(deps.Resellers, logg))
			r.Post("/", controllers.CreateReseller(deps.Resellers, logg))
			r.Get("/{id}", controllers.GetReseller(deps.Resellers, logg))
			r.Post("/{id}/approve", controllers.ApproveReseller(deps.Resellers, logg))
			r.Post("/{id}/suspend", controllers.SuspendReseller(deps.Resellers, logg))
			r.Post("/{id}/vouchers", controllers.CreateResellerVoucher(deps.Resellers, logg))
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", controllers.ListCampaigns(deps.Campaigns, logg))
			r.Post("/", controllers.CreateCampaign(deps.Campaigns, logg))
			r.Get("/{id}", controllers.GetCampaign(deps.Campaigns, logg))
			r.Patch("/{id}", controllers.UpdateCampaign(deps.Campaigns, logg))
			r.Delete("/{id}", controllers.DeleteCampaign(deps.Campaigns, logg))
			r.Post("/{id}/pause", controllers.PauseCampaign(deps.Campaigns, logg))
			r.Post("/{id}/resume", controllers.ResumeCampaign(deps.Campaigns, logg))
			r.Post("/{id}/send-test", controllers.SendTestCampaign(deps.Campaigns, logg))
		})

		r.Route("/email-marketing", func(r chi.Router) {
			r.Get("/config", controllers.GetEmailConfig(deps.Campaigns, logg))
			r.Put("/config", controllers.UpdateEmailConfig(deps.Campaigns, logg))
		})
	})

	return r
}
