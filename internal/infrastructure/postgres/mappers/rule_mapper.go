package mappers

import (
	"encoding/json"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
)

func ToDomainRule(model *models.BonusRuleModel) (*domain.BonusRule, error) {
	var config domain.RuleConfig
	if err := json.Unmarshal([]byte(model.Config), &config); err != nil {
		return nil, err
	}

	return &domain.BonusRule{
		ID:         model.ID,
		CompanyID:  model.CompanyID,
		Name:       model.Name,
		Scope:      model.Scope,
		WindowType: model.WindowType,
		RuleType:   model.RuleType,
		Priority:   model.Priority,
		Active:     model.IsActive,
		Config:     config,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}, nil
}

func ToGORMRule(rule *domain.BonusRule) (*models.BonusRuleModel, error) {
	config, err := json.Marshal(rule.Config)
	if err != nil {
		return nil, err
	}

	return &models.BonusRuleModel{
		ID:         rule.ID,
		CompanyID:  rule.CompanyID,
		Name:       rule.Name,
		Scope:      rule.Scope,
		WindowType: rule.WindowType,
		RuleType:   rule.RuleType,
		Priority:   rule.Priority,
		IsActive:   rule.Active,
		Config:     string(config),
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}, nil
}
