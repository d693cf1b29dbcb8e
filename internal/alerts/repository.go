package alerts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/panelops/panelops-backend/pkg/db/models"
)

// AlertRepository defines persistence for alert rules.
type AlertRepository interface {
	Create(ctx context.Context, rule *models.AlertRule) (*models.AlertRule, error)
	Update(ctx context.Context, rule *models.AlertRule) (*models.AlertRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AlertRule, error)
	List(ctx context.Context) ([]models.AlertRule, error)
	ListEnabled(ctx context.Context) ([]models.AlertRule, error)
}

// Repository is the GORM-backed alert rule store.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rule *models.AlertRule) (*models.AlertRule, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *Repository) Update(ctx context.Context, rule *models.AlertRule) (*models.AlertRule, error) {
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AlertRule{}).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AlertRule, error) {
	var rule models.AlertRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *Repository) List(ctx context.Context) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *Repository) ListEnabled(ctx context.Context) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
