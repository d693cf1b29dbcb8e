package alerts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/panelops/panelops-backend/pkg/db/models"
	"github.com/panelops/panelops-backend/pkg/enums"
)

func setupAlertsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS alert_rules (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  metric TEXT NOT NULL,
  comparison TEXT NOT NULL,
  threshold REAL NOT NULL,
  enabled INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func TestRepositoryCreateAssignsID(t *testing.T) {
	repo := NewRepository(setupAlertsTestDB(t))

	created, err := repo.Create(context.Background(), &models.AlertRule{
		Name:       "Low daily revenue",
		Metric:     enums.AlertMetricTotalRevenue,
		Comparison: enums.AlertComparisonBelow,
		Threshold:  50000,
		Enabled:    true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Low daily revenue", loaded.Name)
	assert.Equal(t, enums.AlertMetricTotalRevenue, loaded.Metric)
}

func TestRepositoryListEnabledFiltersDisabled(t *testing.T) {
	repo := NewRepository(setupAlertsTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.AlertRule{
		Name: "active", Metric: enums.AlertMetricPaidOrders,
		Comparison: enums.AlertComparisonBelow, Threshold: 10, Enabled: true,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.AlertRule{
		Name: "paused", Metric: enums.AlertMetricAOV,
		Comparison: enums.AlertComparisonAbove, Threshold: 100, Enabled: false,
	})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	enabled, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "active", enabled[0].Name)
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	repo := NewRepository(setupAlertsTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.AlertRule{
		Name: "threshold", Metric: enums.AlertMetricTotalOrders,
		Comparison: enums.AlertComparisonBelow, Threshold: 5, Enabled: true,
	})
	require.NoError(t, err)

	created.Threshold = 20
	created.Enabled = false
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(20), loaded.Threshold)
	assert.False(t, loaded.Enabled)
}

func TestRepositoryDeleteRemovesRule(t *testing.T) {
	repo := NewRepository(setupAlertsTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.AlertRule{
		Name: "short lived", Metric: enums.AlertMetricUniqueCustomers,
		Comparison: enums.AlertComparisonBelow, Threshold: 1, Enabled: true,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
