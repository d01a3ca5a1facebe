package publisher

import (
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

// AwardEvent публикуется в топик bonus-award-events при каждом начислении
type AwardEvent struct {
	AwardID          string    `json:"award_id"`
	CompanyID        string    `json:"company_id"`
	RuleID           string    `json:"rule_id"`
	WorkerID         string    `json:"worker_id"`
	StepsAwarded     int       `json:"steps_awarded"`
	BonusAmountCents int64     `json:"bonus_amount_cents"`
	Currency         string    `json:"currency"`
	AwardedAt        time.Time `json:"awarded_at"`
}

func newAwardEvent(award *domain.BonusAward) AwardEvent {
	return AwardEvent{
		AwardID:          award.ID,
		CompanyID:        award.CompanyID,
		RuleID:           award.RuleID,
		WorkerID:         award.WorkerID,
		StepsAwarded:     award.StepsAwarded,
		BonusAmountCents: award.BonusAmountCents,
		Currency:         award.Currency,
		AwardedAt:        award.AwardedAt,
	}
}
