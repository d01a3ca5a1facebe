package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAwardRepository struct {
	DB *gorm.DB
}

func NewDefaultAwardRepository(db *gorm.DB) *DefaultAwardRepository {
	return &DefaultAwardRepository{DB: db}
}

// CommitAward записывает начисление и продвигает прогресс в одной
// транзакции: пара "начислено, но прогресс не записан" (и наоборот)
// невозможна. Отставший прогресс откатывает транзакцию с
// ErrProgressConflict; дубль ключа окна - с ErrAwardAlreadyExists.
func (r *DefaultAwardRepository) CommitAward(ctx context.Context, award *domain.BonusAward, progress *domain.BonusProgress, oncePerWindow bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMAward(award, oncePerWindow)).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAwardAlreadyExists
			}
			return err
		}

		if err := recordProgressTx(tx, progress, true); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrProgressConflict
			}
			return err
		}
		return nil
	})
}

func (r *DefaultAwardRepository) AwardExists(ctx context.Context, companyID, ruleID, workerID string, windowStart, windowEnd time.Time) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.BonusAwardModel{}).
		Where("company_id = ? AND rule_id = ? AND worker_id = ? AND window_start = ? AND window_end = ?",
			companyID, ruleID, workerID, windowStart, windowEnd).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultAwardRepository) ListAwards(ctx context.Context, companyID string, filters domain.AwardFilters, page, limit int64) ([]*domain.BonusAward, *domain.AwardTotals, error) {
	baseQuery := r.DB.WithContext(ctx).
		Model(&models.BonusAwardModel{}).
		Where("company_id = ?", companyID)

	if filters.WorkerID != "" {
		baseQuery = baseQuery.Where("worker_id = ?", filters.WorkerID)
	}
	if filters.RuleID != "" {
		baseQuery = baseQuery.Where("rule_id = ?", filters.RuleID)
	}
	if !filters.From.IsZero() {
		baseQuery = baseQuery.Where("awarded_at >= ?", filters.From)
	}
	if !filters.To.IsZero() {
		baseQuery = baseQuery.Where("awarded_at < ?", filters.To)
	}
	if filters.MinAmount > 0 {
		baseQuery = baseQuery.Where("bonus_amount_cents >= ?", filters.MinAmount)
	}
	if filters.MaxAmount > 0 {
		baseQuery = baseQuery.Where("bonus_amount_cents <= ?", filters.MaxAmount)
	}

	totals := &domain.AwardTotals{}
	if err := baseQuery.Session(&gorm.Session{}).Count(&totals.Count).Error; err != nil {
		return nil, nil, err
	}

	var sum struct{ Total int64 }
	if err := baseQuery.Session(&gorm.Session{}).
		Select("COALESCE(SUM(bonus_amount_cents), 0) AS total").
		Scan(&sum).Error; err != nil {
		return nil, nil, err
	}
	totals.TotalAmountCents = sum.Total

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	var awardModels []models.BonusAwardModel
	err := baseQuery.Session(&gorm.Session{}).
		Order("awarded_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&awardModels).Error
	if err != nil {
		return nil, nil, err
	}

	awards := make([]*domain.BonusAward, 0, len(awardModels))
	for i := range awardModels {
		awards = append(awards, mappers.ToDomainAward(&awardModels[i]))
	}
	return awards, totals, nil
}

// isUniqueViolation распознает нарушение уникального индекса
// для postgres и sqlite (тестовая база)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
