package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/panelops/panelops-backend/api/responses"
	"github.com/panelops/panelops-backend/pkg/config"
	"github.com/panelops/panelops-backend/pkg/logger"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck pairs a dependency name with its probe.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PanelOps-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every registered dependency. Any failure flips the
// response to 503 but the payload still reports each check individually.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PanelOps-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		results := map[string]string{}
		healthy := true
		for _, check := range checks {
			if check.Pinger == nil {
				continue
			}
			if err := check.Pinger.Ping(ctx); err != nil {
				healthy = false
				results[check.Name] = "down"
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "check", check.Name), "readiness check failed")
				}
				continue
			}
			results[check.Name] = "ok"
		}

		status := http.StatusOK
		label := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			label = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": label,
			"checks": results,
		})
	}
}
