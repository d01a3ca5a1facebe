package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	ruledto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/rule"
	"github.com/google/uuid"
)

type RuleUsecase interface {
	CreateRule(ctx context.Context, input *ruledto.CreateRuleInput) (*ruledto.RuleOutput, error)
	UpdateRule(ctx context.Context, input *ruledto.UpdateRuleInput) (*ruledto.RuleOutput, error)
	SetRuleActive(ctx context.Context, companyID, ruleID string, active bool) error
	CloneRule(ctx context.Context, input *ruledto.CloneRuleInput) (*ruledto.RuleOutput, error)
	GetRule(ctx context.Context, companyID, ruleID string) (*ruledto.RuleOutput, error)
	ListRules(ctx context.Context, companyID string, activeOnly bool) (*ruledto.ListRulesOutput, error)
}

type DefaultRuleUsecase struct {
	RuleRepo domain.RuleRepository
}

func NewDefaultRuleUsecase(ruleRepo domain.RuleRepository) *DefaultRuleUsecase {
	return &DefaultRuleUsecase{RuleRepo: ruleRepo}
}

func (uc *DefaultRuleUsecase) CreateRule(ctx context.Context, input *ruledto.CreateRuleInput) (*ruledto.RuleOutput, error) {
	now := time.Now()
	rule := &domain.BonusRule{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		Name:       input.Name,
		Scope:      domain.ScopeWorker,
		WindowType: input.WindowType,
		RuleType:   domain.RuleThresholdPayout,
		Priority:   input.Priority,
		Active:     input.Active,
		Config:     input.Config,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// Дубликаты минимумов и отрицательные суммы отклоняются здесь,
	// движок оценки их уже не встречает
	rule.Config.Tiers = rule.Config.SortedTiers()
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := uc.RuleRepo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	return &ruledto.RuleOutput{Rule: *rule}, nil
}

func (uc *DefaultRuleUsecase) UpdateRule(ctx context.Context, input *ruledto.UpdateRuleInput) (*ruledto.RuleOutput, error) {
	rule, err := uc.RuleRepo.GetRuleByID(ctx, input.CompanyID, input.RuleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rule.Name = *input.Name
	}
	if input.Priority != nil {
		rule.Priority = *input.Priority
	}
	if input.Config != nil {
		rule.Config = *input.Config
		rule.Config.Tiers = rule.Config.SortedTiers()
	}
	rule.UpdatedAt = time.Now()

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := uc.RuleRepo.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	return &ruledto.RuleOutput{Rule: *rule}, nil
}

func (uc *DefaultRuleUsecase) SetRuleActive(ctx context.Context, companyID, ruleID string, active bool) error {
	return uc.RuleRepo.SetRuleActive(ctx, companyID, ruleID, active)
}

// CloneRule создает копию правила под новым именем; клон неактивен,
// пока менеджер его явно не включит
func (uc *DefaultRuleUsecase) CloneRule(ctx context.Context, input *ruledto.CloneRuleInput) (*ruledto.RuleOutput, error) {
	source, err := uc.RuleRepo.GetRuleByID(ctx, input.CompanyID, input.RuleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	clone := *source
	clone.ID = uuid.New().String()
	clone.Name = input.Name
	if clone.Name == "" {
		clone.Name = source.Name + " (copy)"
	}
	clone.Active = false
	clone.CreatedAt = now
	clone.UpdatedAt = now

	if err := uc.RuleRepo.CreateRule(ctx, &clone); err != nil {
		return nil, err
	}
	return &ruledto.RuleOutput{Rule: clone}, nil
}

func (uc *DefaultRuleUsecase) GetRule(ctx context.Context, companyID, ruleID string) (*ruledto.RuleOutput, error) {
	rule, err := uc.RuleRepo.GetRuleByID(ctx, companyID, ruleID)
	if err != nil {
		return nil, err
	}
	return &ruledto.RuleOutput{Rule: *rule}, nil
}

func (uc *DefaultRuleUsecase) ListRules(ctx context.Context, companyID string, activeOnly bool) (*ruledto.ListRulesOutput, error) {
	rules, err := uc.RuleRepo.ListRules(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}
	return &ruledto.ListRulesOutput{Rules: rules, Total: int64(len(rules))}, nil
}
