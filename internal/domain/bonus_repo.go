package domain

import (
	"context"
	"time"
)

type ProgressRepository interface {
	GetProgress(ctx context.Context, companyID, ruleID, workerID string, windowStart, windowEnd time.Time) (*BonusProgress, error)
	// RecordProgress - upsert с монотонной защитой: попытка записать
	// меньшее число шагов молча игнорируется.
	RecordProgress(ctx context.Context, progress *BonusProgress) error
	ListProgress(ctx context.Context, companyID string, filters ProgressFilters) ([]*BonusProgress, error)
}

type AwardRepository interface {
	// CommitAward атомарно создает начисление и продвигает прогресс.
	// Возвращает ErrProgressConflict, если прогресс уже ушел вперед,
	// и ErrAwardAlreadyExists при нарушении уникальности окна.
	CommitAward(ctx context.Context, award *BonusAward, progress *BonusProgress, oncePerWindow bool) error
	AwardExists(ctx context.Context, companyID, ruleID, workerID string, windowStart, windowEnd time.Time) (bool, error)
	ListAwards(ctx context.Context, companyID string, filters AwardFilters, page, limit int64) ([]*BonusAward, *AwardTotals, error)
}
