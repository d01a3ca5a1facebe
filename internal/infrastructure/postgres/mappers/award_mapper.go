package mappers

import (
	"fmt"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
)

func ToDomainAward(model *models.BonusAwardModel) *domain.BonusAward {
	return &domain.BonusAward{
		ID:               model.ID,
		CompanyID:        model.CompanyID,
		RuleID:           model.RuleID,
		WorkerID:         model.WorkerID,
		StepsAwarded:     model.StepsAwarded,
		BonusAmountCents: model.BonusAmountCents,
		Currency:         model.Currency,
		WindowStart:      model.WindowStart,
		WindowEnd:        model.WindowEnd,
		AwardedAt:        model.AwardedAt,
		Reason:           model.Reason,
		Payload:          model.Payload,
	}
}

// ToGORMAward строит модель начисления; для once-per-window правил
// заполняется уникальный WindowKey
func ToGORMAward(award *domain.BonusAward, oncePerWindow bool) *models.BonusAwardModel {
	model := &models.BonusAwardModel{
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
		Payload:          award.Payload,
	}

	if oncePerWindow {
		key := fmt.Sprintf("%s:%s:%s:%d", award.CompanyID, award.RuleID, award.WorkerID, award.WindowStart.Unix())
		model.WindowKey = &key
	}

	return model
}
