package mappers

import (
	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
)

func ToDomainProgress(model *models.BonusProgressModel) *domain.BonusProgress {
	return &domain.BonusProgress{
		CompanyID:         model.CompanyID,
		RuleID:            model.RuleID,
		WorkerID:          model.WorkerID,
		WindowStart:       model.WindowStart,
		WindowEnd:         model.WindowEnd,
		LastObservedSteps: model.LastObservedSteps,
		LastComputedAt:    model.LastComputedAt,
	}
}

func ToGORMProgress(progress *domain.BonusProgress) *models.BonusProgressModel {
	return &models.BonusProgressModel{
		CompanyID:         progress.CompanyID,
		RuleID:            progress.RuleID,
		WorkerID:          progress.WorkerID,
		WindowStart:       progress.WindowStart,
		WindowEnd:         progress.WindowEnd,
		LastObservedSteps: progress.LastObservedSteps,
		LastComputedAt:    progress.LastComputedAt,
	}
}
