package repository

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-bonus-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	windowStart = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.AddDate(0, 0, 1)
)

func newBonusDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewTestDB(t,
		&models.BonusProgressModel{},
		&models.BonusAwardModel{},
	)
}

func testProgress(steps int) *domain.BonusProgress {
	return &domain.BonusProgress{
		CompanyID:         "company-1",
		RuleID:            "rule-1",
		WorkerID:          "worker-1",
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		LastObservedSteps: steps,
		LastComputedAt:    time.Now(),
	}
}

func testAward(id string, amountCents int64) *domain.BonusAward {
	return &domain.BonusAward{
		ID:               id,
		CompanyID:        "company-1",
		RuleID:           "rule-1",
		WorkerID:         "worker-1",
		StepsAwarded:     1,
		BonusAmountCents: amountCents,
		Currency:         "USD",
		WindowStart:      windowStart,
		WindowEnd:        windowEnd,
		AwardedAt:        time.Now(),
	}
}

func TestRecordProgressCreatesAndUpdates(t *testing.T) {
	db := newBonusDB(t)
	repo := NewDefaultProgressRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, testProgress(1)))
	require.NoError(t, repo.RecordProgress(ctx, testProgress(3)))

	progress, err := repo.GetProgress(ctx, "company-1", "rule-1", "worker-1", windowStart, windowEnd)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 3, progress.LastObservedSteps)
}

func TestRecordProgressIgnoresRegression(t *testing.T) {
	db := newBonusDB(t)
	repo := NewDefaultProgressRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.RecordProgress(ctx, testProgress(3)))
	// Попытка записать меньше шагов не ошибка и не изменение
	require.NoError(t, repo.RecordProgress(ctx, testProgress(1)))

	progress, err := repo.GetProgress(ctx, "company-1", "rule-1", "worker-1", windowStart, windowEnd)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.LastObservedSteps)
}

func TestGetProgressMissingReturnsNil(t *testing.T) {
	db := newBonusDB(t)
	repo := NewDefaultProgressRepository(db)

	progress, err := repo.GetProgress(context.Background(), "company-1", "rule-1", "worker-1", windowStart, windowEnd)
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestCommitAwardWritesAwardAndProgressAtomically(t *testing.T) {
	db := newBonusDB(t)
	awardRepo := NewDefaultAwardRepository(db)
	progressRepo := NewDefaultProgressRepository(db)
	ctx := context.Background()

	require.NoError(t, awardRepo.CommitAward(ctx, testAward("award-1", 500), testProgress(1), false))

	exists, err := awardRepo.AwardExists(ctx, "company-1", "rule-1", "worker-1", windowStart, windowEnd)
	require.NoError(t, err)
	assert.True(t, exists)

	progress, err := progressRepo.GetProgress(ctx, "company-1", "rule-1", "worker-1", windowStart, windowEnd)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 1, progress.LastObservedSteps)
}

func TestCommitAwardConflictRollsBackAward(t *testing.T) {
	db := newBonusDB(t)
	awardRepo := NewDefaultAwardRepository(db)
	progressRepo := NewDefaultProgressRepository(db)
	ctx := context.Background()

	// Прогресс уже ушел вперед: конкурентный запуск успел раньше
	require.NoError(t, progressRepo.RecordProgress(ctx, testProgress(2)))

	err := awardRepo.CommitAward(ctx, testAward("award-1", 500), testProgress(1), false)
	assert.ErrorIs(t, err, domain.ErrProgressConflict)

	// Начисление не должно пережить откат транзакции
	exists, err := awardRepo.AwardExists(ctx, "company-1", "rule-1", "worker-1", windowStart, windowEnd)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommitAwardOncePerWindowRejectsDuplicate(t *testing.T) {
	db := newBonusDB(t)
	awardRepo := NewDefaultAwardRepository(db)
	ctx := context.Background()

	require.NoError(t, awardRepo.CommitAward(ctx, testAward("award-1", 500), testProgress(1), true))

	err := awardRepo.CommitAward(ctx, testAward("award-2", 1500), testProgress(2), true)
	assert.ErrorIs(t, err, domain.ErrAwardAlreadyExists)
}

func TestCommitAwardWithoutWindowKeyAllowsSecondAward(t *testing.T) {
	db := newBonusDB(t)
	awardRepo := NewDefaultAwardRepository(db)
	ctx := context.Background()

	require.NoError(t, awardRepo.CommitAward(ctx, testAward("award-1", 500), testProgress(1), false))
	require.NoError(t, awardRepo.CommitAward(ctx, testAward("award-2", 1500), testProgress(2), false))

	_, totals, err := awardRepo.ListAwards(ctx, "company-1", domain.AwardFilters{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Count)
	assert.Equal(t, int64(2000), totals.TotalAmountCents)
}

func TestListAwardsFilters(t *testing.T) {
	db := newBonusDB(t)
	awardRepo := NewDefaultAwardRepository(db)
	ctx := context.Background()

	require.NoError(t, awardRepo.CommitAward(ctx, testAward("award-1", 500), testProgress(1), false))
	big := testAward("award-2", 4000)
	big.WorkerID = "worker-2"
	bigProgress := testProgress(1)
	bigProgress.WorkerID = "worker-2"
	require.NoError(t, awardRepo.CommitAward(ctx, big, bigProgress, false))

	awards, totals, err := awardRepo.ListAwards(ctx, "company-1", domain.AwardFilters{MinAmount: 1000}, 1, 10)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "award-2", awards[0].ID)
	assert.Equal(t, int64(4000), totals.TotalAmountCents)

	awards, _, err = awardRepo.ListAwards(ctx, "company-1", domain.AwardFilters{WorkerID: "worker-1"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "award-1", awards[0].ID)

	// Чужая компания ничего не видит
	awards, totals, err = awardRepo.ListAwards(ctx, "company-2", domain.AwardFilters{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, awards)
	assert.Equal(t, int64(0), totals.Count)
}
