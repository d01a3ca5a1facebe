package domain

import (
	"fmt"
	"sort"
	"time"
)

type WindowType string

const (
	WindowCalendarDay   WindowType = "calendar_day"
	WindowCalendarWeek  WindowType = "calendar_week"
	WindowCalendarMonth WindowType = "calendar_month"
)

type RuleType string

const (
	RuleThresholdPayout RuleType = "threshold_payout"
)

type RuleScope string

const (
	ScopeWorker RuleScope = "worker"
)

// Tier - одна ступень выплаты: минимальная сумма заработка и размер бонуса
type Tier struct {
	MinAmountCents int64 `json:"min_amount_cents"`
	BonusCents     int64 `json:"bonus_cents"`
}

type RuleConfig struct {
	Metric             string `json:"metric"`
	Tiers              []Tier `json:"tiers"`
	IncludeRefunds     bool   `json:"include_refunds"`
	ShiftBased         bool   `json:"shift_based"`
	AwardOncePerWindow bool   `json:"award_once_per_window"`
	Currency           string `json:"currency"`
}

// Validate проверяет конфигурацию правила до сохранения,
// чтобы движок никогда не встретил некорректные ступени
func (c *RuleConfig) Validate() error {
	if c.Metric == "" {
		return fmt.Errorf("%w: metric is required", ErrInvalidTierConfiguration)
	}
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: at least one tier is required", ErrInvalidTierConfiguration)
	}
	seen := make(map[int64]bool, len(c.Tiers))
	for _, tier := range c.Tiers {
		if tier.MinAmountCents < 0 {
			return fmt.Errorf("%w: min_amount_cents cannot be negative", ErrInvalidTierConfiguration)
		}
		if tier.BonusCents < 0 {
			return fmt.Errorf("%w: bonus_cents cannot be negative", ErrInvalidTierConfiguration)
		}
		if seen[tier.MinAmountCents] {
			return fmt.Errorf("%w: duplicate tier minimum %d", ErrInvalidTierConfiguration, tier.MinAmountCents)
		}
		seen[tier.MinAmountCents] = true
	}
	return nil
}

// SortedTiers возвращает копию ступеней, отсортированную по возрастанию минимума.
// При равных минимумах больший бонус идет последним, чтобы разрешение было детерминированным.
func (c *RuleConfig) SortedTiers() []Tier {
	tiers := make([]Tier, len(c.Tiers))
	copy(tiers, c.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		if tiers[i].MinAmountCents == tiers[j].MinAmountCents {
			return tiers[i].BonusCents < tiers[j].BonusCents
		}
		return tiers[i].MinAmountCents < tiers[j].MinAmountCents
	})
	return tiers
}

type BonusRule struct {
	ID         string
	CompanyID  string
	Name       string
	Scope      RuleScope
	WindowType WindowType
	RuleType   RuleType
	Priority   int
	Active     bool
	Config     RuleConfig
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *BonusRule) Validate() error {
	if r.CompanyID == "" {
		return fmt.Errorf("%w: company_id is required", ErrInvalidTierConfiguration)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTierConfiguration)
	}
	switch r.WindowType {
	case WindowCalendarDay, WindowCalendarWeek, WindowCalendarMonth:
	default:
		return fmt.Errorf("%w: unknown window type %q", ErrInvalidTierConfiguration, r.WindowType)
	}
	if r.RuleType != RuleThresholdPayout {
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidTierConfiguration, r.RuleType)
	}
	if r.Scope != ScopeWorker {
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidTierConfiguration, r.Scope)
	}
	if r.Config.ShiftBased && r.WindowType != WindowCalendarDay {
		return fmt.Errorf("%w: shift_based is only valid for calendar_day windows", ErrInvalidTierConfiguration)
	}
	return r.Config.Validate()
}
