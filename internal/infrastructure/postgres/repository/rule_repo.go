package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRuleRepository struct {
	DB *gorm.DB
}

func NewDefaultRuleRepository(db *gorm.DB) *DefaultRuleRepository {
	return &DefaultRuleRepository{DB: db}
}

func (r *DefaultRuleRepository) CreateRule(ctx context.Context, rule *domain.BonusRule) error {
	model, err := mappers.ToGORMRule(rule)
	if err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Create(model).Error
}

func (r *DefaultRuleRepository) UpdateRule(ctx context.Context, rule *domain.BonusRule) error {
	model, err := mappers.ToGORMRule(rule)
	if err != nil {
		return err
	}

	result := r.DB.WithContext(ctx).
		Model(&models.BonusRuleModel{}).
		Where("id = ? AND company_id = ?", rule.ID, rule.CompanyID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"priority":   model.Priority,
			"config":     model.Config,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *DefaultRuleRepository) SetRuleActive(ctx context.Context, companyID, ruleID string, active bool) error {
	result := r.DB.WithContext(ctx).
		Model(&models.BonusRuleModel{}).
		Where("id = ? AND company_id = ?", ruleID, companyID).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *DefaultRuleRepository) GetRuleByID(ctx context.Context, companyID, ruleID string) (*domain.BonusRule, error) {
	var model models.BonusRuleModel
	err := r.DB.WithContext(ctx).
		First(&model, "id = ? AND company_id = ?", ruleID, companyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainRule(&model)
}

// ListRules возвращает правила компании по возрастанию приоритета
func (r *DefaultRuleRepository) ListRules(ctx context.Context, companyID string, activeOnly bool) ([]*domain.BonusRule, error) {
	query := r.DB.WithContext(ctx).Where("company_id = ?", companyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var ruleModels []models.BonusRuleModel
	if err := query.Order("priority ASC, created_at ASC").Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]*domain.BonusRule, 0, len(ruleModels))
	for i := range ruleModels {
		rule, err := mappers.ToDomainRule(&ruleModels[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
