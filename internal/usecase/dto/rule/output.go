package ruledto

import "github.com/LavaJover/shvark-bonus-service/internal/domain"

type RuleOutput struct {
	Rule domain.BonusRule
}

type ListRulesOutput struct {
	Rules []*domain.BonusRule
	Total int64
}
