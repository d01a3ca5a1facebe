package request

import "github.com/LavaJover/shvark-bonus-service/internal/domain"

type TierRequest struct {
	MinAmountCents int64 `json:"min_amount_cents"`
	BonusCents     int64 `json:"bonus_cents"`
}

type RuleConfigRequest struct {
	Metric             string        `json:"metric"`
	Tiers              []TierRequest `json:"tiers"`
	IncludeRefunds     bool          `json:"include_refunds"`
	ShiftBased         bool          `json:"shift_based"`
	AwardOncePerWindow bool          `json:"award_once_per_window"`
	Currency           string        `json:"currency"`
}

type CreateRuleRequest struct {
	CompanyID  string            `json:"company_id"`
	Name       string            `json:"name"`
	WindowType string            `json:"window_type"`
	Priority   int               `json:"priority"`
	Active     bool              `json:"active"`
	Config     RuleConfigRequest `json:"config"`
}

type UpdateRuleRequest struct {
	CompanyID string             `json:"company_id"`
	Name      *string            `json:"name,omitempty"`
	Priority  *int               `json:"priority,omitempty"`
	Config    *RuleConfigRequest `json:"config,omitempty"`
}

type SetRuleActiveRequest struct {
	CompanyID string `json:"company_id"`
	Active    bool   `json:"active"`
}

type CloneRuleRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

type RunEngineRequest struct {
	CompanyID string `json:"company_id"`
	RuleID    string `json:"rule_id,omitempty"`
	WorkerID  string `json:"worker_id,omitempty"`
	AsOf      string `json:"as_of,omitempty"` // RFC3339; пусто = сейчас
}

// ToDomainConfig нормализует форму конфига один раз на границе API
func (r *RuleConfigRequest) ToDomainConfig() domain.RuleConfig {
	tiers := make([]domain.Tier, 0, len(r.Tiers))
	for _, tier := range r.Tiers {
		tiers = append(tiers, domain.Tier{
			MinAmountCents: tier.MinAmountCents,
			BonusCents:     tier.BonusCents,
		})
	}
	return domain.RuleConfig{
		Metric:             r.Metric,
		Tiers:              tiers,
		IncludeRefunds:     r.IncludeRefunds,
		ShiftBased:         r.ShiftBased,
		AwardOncePerWindow: r.AwardOncePerWindow,
		Currency:           r.Currency,
	}
}
