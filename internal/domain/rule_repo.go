package domain

import "context"

type RuleRepository interface {
	CreateRule(ctx context.Context, rule *BonusRule) error
	UpdateRule(ctx context.Context, rule *BonusRule) error
	SetRuleActive(ctx context.Context, companyID, ruleID string, active bool) error
	GetRuleByID(ctx context.Context, companyID, ruleID string) (*BonusRule, error)
	ListRules(ctx context.Context, companyID string, activeOnly bool) ([]*BonusRule, error)
}
