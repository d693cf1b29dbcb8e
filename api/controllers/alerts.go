package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/panelops/panelops-backend/api/responses"
	"github.com/panelops/panelops-backend/api/validators"
	"github.com/panelops/panelops-backend/internal/alerts"
	"github.com/panelops/panelops-backend/pkg/enums"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
)

type createAlertRequest struct {
	Name       string  `json:"name" validate:"required"`
	Metric     string  `json:"metric" validate:"required"`
	Comparison string  `json:"comparison" validate:"required,oneof=below above"`
	Threshold  float64 `json:"threshold"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

type updateAlertRequest struct {
	Name       *string  `json:"name,omitempty"`
	Metric     *string  `json:"metric,omitempty"`
	Comparison *string  `json:"comparison,omitempty" validate:"omitempty,oneof=below above"`
	Threshold  *float64 `json:"threshold,omitempty"`
	Enabled    *bool    `json:"enabled,omitempty"`
}

func ListAlerts(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := svc.ListRules(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules)
	}
}

func CreateAlert(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createAlertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rule, err := svc.CreateRule(r.Context(), alerts.CreateRuleInput{
			Name:       body.Name,
			Metric:     enums.AlertMetric(body.Metric),
			Comparison: enums.AlertComparison(body.Comparison),
			Threshold:  body.Threshold,
			Enabled:    body.Enabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rule)
	}
}

func UpdateAlert(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := alertID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateAlertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := alerts.UpdateRuleInput{
			Name:      body.Name,
			Threshold: body.Threshold,
			Enabled:   body.Enabled,
		}
		if body.Metric != nil {
			metric := enums.AlertMetric(*body.Metric)
			input.Metric = &metric
		}
		if body.Comparison != nil {
			comparison := enums.AlertComparison(*body.Comparison)
			input.Comparison = &comparison
		}

		rule, err := svc.UpdateRule(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rule)
	}
}

func DeleteAlert(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := alertID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteRule(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func alertID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid alert rule id")
	}
	return id, nil
}
