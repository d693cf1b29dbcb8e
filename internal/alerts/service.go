package alerts

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/panelops/panelops-backend/internal/aggregations"
	"github.com/panelops/panelops-backend/pkg/db/models"
	"github.com/panelops/panelops-backend/pkg/enums"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
)

// Service manages alert rules and evaluates them against period metrics.
type Service interface {
	CreateRule(ctx context.Context, input CreateRuleInput) (*models.AlertRule, error)
	UpdateRule(ctx context.Context, id uuid.UUID, input UpdateRuleInput) (*models.AlertRule, error)
	DeleteRule(ctx context.Context, id uuid.UUID) error
	GetRule(ctx context.Context, id uuid.UUID) (*models.AlertRule, error)
	ListRules(ctx context.Context) ([]models.AlertRule, error)
	Evaluate(ctx context.Context, metrics aggregations.PeriodMetrics) ([]TriggeredAlert, error)
}

// CreateRuleInput holds the validated payload to create an alert rule.
type CreateRuleInput struct {
	Name       string
	Metric     enums.AlertMetric
	Comparison enums.AlertComparison
	Threshold  float64
	Enabled    *bool
}

// UpdateRuleInput holds optional mutation values for an alert rule.
type UpdateRuleInput struct {
	Name       *string
	Metric     *enums.AlertMetric
	Comparison *enums.AlertComparison
	Threshold  *float64
	Enabled    *bool
}

// TriggeredAlert reports a rule whose condition held for the current period.
type TriggeredAlert struct {
	RuleID     uuid.UUID             `json:"rule_id"`
	Name       string                `json:"name"`
	Metric     enums.AlertMetric     `json:"metric"`
	Comparison enums.AlertComparison `json:"comparison"`
	Threshold  float64               `json:"threshold"`
	Value      float64               `json:"value"`
}

type service struct {
	repo AlertRepository
	logg *logger.Logger
}

// NewService wires the alert service over its repository.
func NewService(repo AlertRepository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) CreateRule(ctx context.Context, input CreateRuleInput) (*models.AlertRule, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert rule name is required")
	}
	if !input.Metric.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown alert metric")
	}
	if !input.Comparison.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown alert comparison")
	}

	rule := &models.AlertRule{
		Name:       name,
		Metric:     input.Metric,
		Comparison: input.Comparison,
		Threshold:  input.Threshold,
		Enabled:    true,
	}
	if input.Enabled != nil {
		rule.Enabled = *input.Enabled
	}

	created, err := s.repo.Create(ctx, rule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create alert rule")
	}
	return created, nil
}

func (s *service) UpdateRule(ctx context.Context, id uuid.UUID, input UpdateRuleInput) (*models.AlertRule, error) {
	rule, err := s.loadRule(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "alert rule name is required")
		}
		rule.Name = name
	}
	if input.Metric != nil {
		if !input.Metric.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown alert metric")
		}
		rule.Metric = *input.Metric
	}
	if input.Comparison != nil {
		if !input.Comparison.Valid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown alert comparison")
		}
		rule.Comparison = *input.Comparison
	}
	if input.Threshold != nil {
		rule.Threshold = *input.Threshold
	}
	if input.Enabled != nil {
		rule.Enabled = *input.Enabled
	}

	updated, err := s.repo.Update(ctx, rule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update alert rule")
	}
	return updated, nil
}

func (s *service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadRule(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete alert rule")
	}
	return nil
}

func (s *service) GetRule(ctx context.Context, id uuid.UUID) (*models.AlertRule, error) {
	return s.loadRule(ctx, id)
}

func (s *service) ListRules(ctx context.Context) ([]models.AlertRule, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list alert rules")
	}
	return rules, nil
}

// Evaluate checks every enabled rule against the supplied metrics. It returns
// only the rules whose condition currently holds.
func (s *service) Evaluate(ctx context.Context, metrics aggregations.PeriodMetrics) ([]TriggeredAlert, error) {
	rules, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load enabled alert rules")
	}

	triggered := make([]TriggeredAlert, 0, len(rules))
	for _, rule := range rules {
		value, ok := metricValue(rule.Metric, metrics)
		if !ok {
			// Legacy rows can reference metrics the evaluator no longer knows.
			s.logg.Warn(ctx, "skipping alert rule with unknown metric "+rule.Metric.String())
			continue
		}
		if holds(rule.Comparison, value, rule.Threshold) {
			triggered = append(triggered, TriggeredAlert{
				RuleID:     rule.ID,
				Name:       rule.Name,
				Metric:     rule.Metric,
				Comparison: rule.Comparison,
				Threshold:  rule.Threshold,
				Value:      value,
			})
		}
	}
	return triggered, nil
}

func (s *service) loadRule(ctx context.Context, id uuid.UUID) (*models.AlertRule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "alert rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load alert rule")
	}
	return rule, nil
}

func metricValue(metric enums.AlertMetric, metrics aggregations.PeriodMetrics) (float64, bool) {
	switch metric {
	case enums.AlertMetricTotalRevenue:
		return float64(metrics.TotalRevenue), true
	case enums.AlertMetricTotalOrders:
		return float64(metrics.TotalOrders), true
	case enums.AlertMetricPaidOrders:
		return float64(metrics.PaidOrders), true
	case enums.AlertMetricAOV:
		return float64(metrics.AOV), true
	case enums.AlertMetricUniqueCustomers:
		return float64(metrics.UniqueCustomers), true
	}
	return 0, false
}

func holds(comparison enums.AlertComparison, value, threshold float64) bool {
	switch comparison {
	case enums.AlertComparisonBelow:
		return value < threshold
	case enums.AlertComparisonAbove:
		return value > threshold
	}
	return false
}
