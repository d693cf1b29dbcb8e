package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/panelops/panelops-backend/pkg/enums"
)

// AlertRule is a locally persisted threshold on a dashboard KPI. Rules are
// evaluated against the current period every time the overview is built.
type AlertRule struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name       string                `gorm:"column:name;not null"`
	Metric     enums.AlertMetric     `gorm:"column:metric;not null"`
	Comparison enums.AlertComparison `gorm:"column:comparison;not null"`
	Threshold  float64               `gorm:"column:threshold;not null"`
	Enabled    bool                  `gorm:"column:enabled;not null;default:true"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps GORM aligned with the migration.
func (AlertRule) TableName() string { return "alert_rules" }
