package ruledto

import "github.com/LavaJover/shvark-bonus-service/internal/domain"

type CreateRuleInput struct {
	CompanyID  string
	Name       string
	WindowType domain.WindowType
	Priority   int
	Active     bool
	Config     domain.RuleConfig
}

type UpdateRuleInput struct {
	CompanyID string
	RuleID    string
	Name      *string
	Priority  *int
	Config    *domain.RuleConfig
}

type CloneRuleInput struct {
	CompanyID string
	RuleID    string
	Name      string
}
