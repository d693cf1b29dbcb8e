package alerts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/panelops/panelops-backend/internal/aggregations"
	"github.com/panelops/panelops-backend/pkg/db/models"
	"github.com/panelops/panelops-backend/pkg/enums"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
)

type fakeAlertRepo struct {
	rules map[uuid.UUID]*models.AlertRule
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{rules: map[uuid.UUID]*models.AlertRule{}}
}

func (f *fakeAlertRepo) Create(_ context.Context, rule *models.AlertRule) (*models.AlertRule, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	stored := *rule
	f.rules[rule.ID] = &stored
	return rule, nil
}

func (f *fakeAlertRepo) Update(_ context.Context, rule *models.AlertRule) (*models.AlertRule, error) {
	stored := *rule
	f.rules[rule.ID] = &stored
	return rule, nil
}

func (f *fakeAlertRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rules, id)
	return nil
}

func (f *fakeAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*models.AlertRule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *rule
	return &found, nil
}

func (f *fakeAlertRepo) List(_ context.Context) ([]models.AlertRule, error) {
	out := make([]models.AlertRule, 0, len(f.rules))
	for _, rule := range f.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func (f *fakeAlertRepo) ListEnabled(_ context.Context) ([]models.AlertRule, error) {
	out := make([]models.AlertRule, 0, len(f.rules))
	for _, rule := range f.rules {
		if rule.Enabled {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func newAlertService(repo AlertRepository) Service {
	return NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
}

func TestCreateRuleValidatesInput(t *testing.T) {
	svc := newAlertService(newFakeAlertRepo())
	ctx := context.Background()

	_, err := svc.CreateRule(ctx, CreateRuleInput{
		Name: "  ", Metric: enums.AlertMetricAOV, Comparison: enums.AlertComparisonBelow,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateRule(ctx, CreateRuleInput{
		Name: "bad metric", Metric: "conversion_rate", Comparison: enums.AlertComparisonBelow,
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateRule(ctx, CreateRuleInput{
		Name: "bad comparison", Metric: enums.AlertMetricAOV, Comparison: "equals",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRuleDefaultsEnabled(t *testing.T) {
	svc := newAlertService(newFakeAlertRepo())

	rule, err := svc.CreateRule(context.Background(), CreateRuleInput{
		Name:       "Low AOV",
		Metric:     enums.AlertMetricAOV,
		Comparison: enums.AlertComparisonBelow,
		Threshold:  2500,
	})
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
	assert.Equal(t, "Low AOV", rule.Name)
}

func TestUpdateRuleAppliesPartialChanges(t *testing.T) {
	repo := newFakeAlertRepo()
	svc := newAlertService(repo)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, CreateRuleInput{
		Name: "Orders", Metric: enums.AlertMetricTotalOrders,
		Comparison: enums.AlertComparisonBelow, Threshold: 10,
	})
	require.NoError(t, err)

	threshold := 40.0
	disabled := false
	updated, err := svc.UpdateRule(ctx, rule.ID, UpdateRuleInput{Threshold: &threshold, Enabled: &disabled})
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.Threshold)
	assert.False(t, updated.Enabled)
	assert.Equal(t, enums.AlertMetricTotalOrders, updated.Metric)
}

func TestUpdateRuleNotFound(t *testing.T) {
	svc := newAlertService(newFakeAlertRepo())

	name := "missing"
	_, err := svc.UpdateRule(context.Background(), uuid.New(), UpdateRuleInput{Name: &name})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestEvaluateTriggersOnlyMatchingEnabledRules(t *testing.T) {
	repo := newFakeAlertRepo()
	svc := newAlertService(repo)
	ctx := context.Background()

	mustCreate := func(input CreateRuleInput) *models.AlertRule {
		rule, err := svc.CreateRule(ctx, input)
		require.NoError(t, err)
		return rule
	}

	low := mustCreate(CreateRuleInput{
		Name: "Revenue floor", Metric: enums.AlertMetricTotalRevenue,
		Comparison: enums.AlertComparisonBelow, Threshold: 100000,
	})
	mustCreate(CreateRuleInput{
		Name: "Order ceiling", Metric: enums.AlertMetricTotalOrders,
		Comparison: enums.AlertComparisonAbove, Threshold: 500,
	})
	paused := false
	mustCreate(CreateRuleInput{
		Name: "Paused", Metric: enums.AlertMetricPaidOrders,
		Comparison: enums.AlertComparisonBelow, Threshold: 1000, Enabled: &paused,
	})

	triggered, err := svc.Evaluate(ctx, aggregations.PeriodMetrics{
		TotalRevenue: 75000,
		TotalOrders:  120,
		PaidOrders:   100,
	})
	require.NoError(t, err)
	require.Len(t, triggered, 1)
	assert.Equal(t, low.ID, triggered[0].RuleID)
	assert.Equal(t, 75000.0, triggered[0].Value)
}

func TestEvaluateSkipsUnknownMetricRows(t *testing.T) {
	repo := newFakeAlertRepo()
	id := uuid.New()
	repo.rules[id] = &models.AlertRule{
		ID: id, Name: "legacy", Metric: "bounce_rate",
		Comparison: enums.AlertComparisonAbove, Threshold: 1, Enabled: true,
	}

	triggered, err := newAlertService(repo).Evaluate(context.Background(), aggregations.PeriodMetrics{})
	require.NoError(t, err)
	assert.Empty(t, triggered)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}
