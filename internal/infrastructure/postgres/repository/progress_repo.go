package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProgressRepository struct {
	DB *gorm.DB
}

func NewDefaultProgressRepository(db *gorm.DB) *DefaultProgressRepository {
	return &DefaultProgressRepository{DB: db}
}

func (r *DefaultProgressRepository) GetProgress(ctx context.Context, companyID, ruleID, workerID string, windowStart, windowEnd time.Time) (*domain.BonusProgress, error) {
	var model models.BonusProgressModel
	err := r.DB.WithContext(ctx).
		Where("company_id = ? AND rule_id = ? AND worker_id = ? AND window_start = ? AND window_end = ?",
			companyID, ruleID, workerID, windowStart, windowEnd).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainProgress(&model), nil
}

// RecordProgress - upsert с монотонной защитой. Условный UPDATE
// срабатывает только если сохраненные шаги строго меньше новых;
// попытка записать меньше молча игнорируется.
func (r *DefaultProgressRepository) RecordProgress(ctx context.Context, progress *domain.BonusProgress) error {
	return recordProgressTx(r.DB.WithContext(ctx), progress, false)
}

func (r *DefaultProgressRepository) ListProgress(ctx context.Context, companyID string, filters domain.ProgressFilters) ([]*domain.BonusProgress, error) {
	query := r.DB.WithContext(ctx).Where("company_id = ?", companyID)
	if filters.WorkerID != "" {
		query = query.Where("worker_id = ?", filters.WorkerID)
	}
	if filters.RuleID != "" {
		query = query.Where("rule_id = ?", filters.RuleID)
	}

	var progressModels []models.BonusProgressModel
	if err := query.Order("window_start DESC").Find(&progressModels).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.BonusProgress, 0, len(progressModels))
	for i := range progressModels {
		result = append(result, mappers.ToDomainProgress(&progressModels[i]))
	}
	return result, nil
}

// recordProgressTx выполняет условный upsert прогресса.
// strict=true превращает отставшую запись в ErrProgressConflict -
// так CommitAward узнает, что прогресс уже ушел вперед.
func recordProgressTx(tx *gorm.DB, progress *domain.BonusProgress, strict bool) error {
	result := tx.Model(&models.BonusProgressModel{}).
		Where("company_id = ? AND rule_id = ? AND worker_id = ? AND window_start = ? AND window_end = ? AND last_observed_steps < ?",
			progress.CompanyID, progress.RuleID, progress.WorkerID,
			progress.WindowStart, progress.WindowEnd, progress.LastObservedSteps).
		Updates(map[string]interface{}{
			"last_observed_steps": progress.LastObservedSteps,
			"last_computed_at":    progress.LastComputedAt,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Либо строки нет, либо сохраненные шаги уже >= новых
	var existing models.BonusProgressModel
	err := tx.Where("company_id = ? AND rule_id = ? AND worker_id = ? AND window_start = ? AND window_end = ?",
		progress.CompanyID, progress.RuleID, progress.WorkerID,
		progress.WindowStart, progress.WindowEnd).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(mappers.ToGORMProgress(progress)).Error
	}
	if err != nil {
		return err
	}

	if strict && existing.LastObservedSteps >= progress.LastObservedSteps {
		return domain.ErrProgressConflict
	}
	return nil
}
