package response

import (
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RuleResponse struct {
	ID         string            `json:"id"`
	CompanyID  string            `json:"company_id"`
	Name       string            `json:"name"`
	Scope      string            `json:"scope"`
	WindowType string            `json:"window_type"`
	RuleType   string            `json:"rule_type"`
	Priority   int               `json:"priority"`
	Active     bool              `json:"active"`
	Config     domain.RuleConfig `json:"config"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type ListRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
	Total int64          `json:"total"`
}

type AwardResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	RuleID           string    `json:"rule_id"`
	WorkerID         string    `json:"worker_id"`
	StepsAwarded     int       `json:"steps_awarded"`
	BonusAmountCents int64     `json:"bonus_amount_cents"`
	Currency         string    `json:"currency"`
	WindowStart      time.Time `json:"window_start"`
	WindowEnd        time.Time `json:"window_end"`
	AwardedAt        time.Time `json:"awarded_at"`
	Reason           string    `json:"reason"`
}

type ListAwardsResponse struct {
	Awards           []AwardResponse `json:"awards"`
	TotalCount       int64           `json:"total_count"`
	TotalAmountCents int64           `json:"total_amount_cents"`
}

type ProgressResponse struct {
	RuleID            string    `json:"rule_id"`
	WorkerID          string    `json:"worker_id"`
	WindowStart       time.Time `json:"window_start"`
	WindowEnd         time.Time `json:"window_end"`
	LastObservedSteps int       `json:"last_observed_steps"`
	LastComputedAt    time.Time `json:"last_computed_at"`
}

type ListProgressResponse struct {
	Progress []ProgressResponse `json:"progress"`
}

func FromDomainRule(rule *domain.BonusRule) RuleResponse {
	return RuleResponse{
		ID:         rule.ID,
		CompanyID:  rule.CompanyID,
		Name:       rule.Name,
		Scope:      string(rule.Scope),
		WindowType: string(rule.WindowType),
		RuleType:   string(rule.RuleType),
		Priority:   rule.Priority,
		Active:     rule.Active,
		Config:     rule.Config,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}

func FromDomainAward(award *domain.BonusAward) AwardResponse {
	return AwardResponse{
		ID:               award.ID,
		CompanyID:        award.CompanyID,
		RuleID:           award.RuleID,
		WorkerID:         award.WorkerID,
		StepsAwarded:     award.StepsAwarded,
		BonusAmountCents: award.BonusAmountCents,
		Currency:         award.Currency,
		WindowStart:      award.WindowStart,
		WindowEnd:        award.WindowEnd,
		AwardedAt:        award.AwardedAt,
		Reason:           award.Reason,
	}
}

func FromDomainProgress(progress *domain.BonusProgress) ProgressResponse {
	return ProgressResponse{
		RuleID:            progress.RuleID,
		WorkerID:          progress.WorkerID,
		WindowStart:       progress.WindowStart,
		WindowEnd:         progress.WindowEnd,
		LastObservedSteps: progress.LastObservedSteps,
		LastComputedAt:    progress.LastComputedAt,
	}
}
