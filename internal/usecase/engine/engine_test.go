package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-bonus-service/internal/testutil"
	evaldto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/evaluation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "company-1"
	testWorkerID  = "worker-1"
)

// fakeBackend подменяет внешний бэкенд заработков и смен
type fakeBackend struct {
	mu      sync.Mutex
	events  []domain.EarningsEvent
	workers []string
	shift   *domain.Shift
}

func (f *fakeBackend) addEarnings(workerID string, occurredAt time.Time, amountCents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, domain.EarningsEvent{
		WorkerID:    workerID,
		Metric:      "net_sales",
		AmountCents: amountCents,
		OccurredAt:  occurredAt,
	})
}

func (f *fakeBackend) GetEarningsInWindow(_ context.Context, _, workerID, _ string, start, end time.Time) ([]domain.EarningsEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	window := domain.Window{Start: start, End: end}
	var result []domain.EarningsEvent
	for _, event := range f.events {
		if event.WorkerID == workerID && window.Contains(event.OccurredAt) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (f *fakeBackend) ListActiveWorkers(_ context.Context, _ string, _, _ time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workers, nil
}

func (f *fakeBackend) GetShiftCoveringDate(_ context.Context, _, _ string, _ time.Time) (*domain.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shift, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]*domain.BonusAward
}

func (f *fakePublisher) Publish(_ string, _ ...domain.Message) error {
	return nil
}

func (f *fakePublisher) BatchPublishAwardsWithRetry(_ string, awards []*domain.BonusAward, _ int, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, awards)
	return nil
}

func (f *fakePublisher) published() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, batch := range f.batches {
		total += len(batch)
	}
	return total
}

type engineFixture struct {
	engine    *DefaultBonusEngine
	backend   *fakeBackend
	publisher *fakePublisher
	ruleRepo  domain.RuleRepository
	awardRepo domain.AwardRepository
	progRepo  domain.ProgressRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db := testutil.NewTestDB(t,
		&models.BonusRuleModel{},
		&models.BonusProgressModel{},
		&models.BonusAwardModel{},
	)

	backend := &fakeBackend{workers: []string{testWorkerID}}
	pub := &fakePublisher{}
	ruleRepo := repository.NewDefaultRuleRepository(db)
	progRepo := repository.NewDefaultProgressRepository(db)
	awardRepo := repository.NewDefaultAwardRepository(db)

	e, err := NewDefaultBonusEngine(
		ruleRepo, progRepo, awardRepo,
		backend, backend, pub,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		time.UTC,
		"USD",
		3,
	)
	require.NoError(t, err)

	return &engineFixture{
		engine:    e,
		backend:   backend,
		publisher: pub,
		ruleRepo:  ruleRepo,
		awardRepo: awardRepo,
		progRepo:  progRepo,
	}
}

func (f *engineFixture) seedRule(t *testing.T, mutate func(*domain.BonusRule)) *domain.BonusRule {
	t.Helper()

	now := time.Now()
	rule := &domain.BonusRule{
		ID:         uuid.New().String(),
		CompanyID:  testCompanyID,
		Name:       "daily sales bonus",
		Scope:      domain.ScopeWorker,
		WindowType: domain.WindowCalendarDay,
		RuleType:   domain.RuleThresholdPayout,
		Active:     true,
		Config: domain.RuleConfig{
			Metric: "net_sales",
			Tiers: []domain.Tier{
				{MinAmountCents: 10000, BonusCents: 500},
				{MinAmountCents: 25000, BonusCents: 1500},
				{MinAmountCents: 50000, BonusCents: 4000},
			},
			Currency: "USD",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(rule)
	}
	require.NoError(t, f.ruleRepo.CreateRule(context.Background(), rule))
	return rule
}

func (f *engineFixture) countAwards(t *testing.T) int64 {
	t.Helper()
	_, totals, err := f.awardRepo.ListAwards(context.Background(), testCompanyID, domain.AwardFilters{}, 1, 100)
	require.NoError(t, err)
	return totals.Count
}

var asOf = time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)

func TestPreviewHasNoSideEffects(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	for i := 0; i < 3; i++ {
		preview, err := f.engine.Preview(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
		require.NoError(t, err)
		assert.Equal(t, int64(30000), preview.TotalCents)
		assert.Equal(t, 2, preview.EntitledSteps)
		assert.Equal(t, int64(1500), preview.ExpectedAwardCents)
		assert.Equal(t, 0, preview.LastObservedSteps)
	}

	assert.Equal(t, int64(0), f.countAwards(t))
	progress, err := f.progRepo.ListProgress(context.Background(), testCompanyID, domain.ProgressFilters{})
	require.NoError(t, err)
	assert.Empty(t, progress)
	assert.Equal(t, 0, f.publisher.published())
}

func TestPreviewBelowFirstTier(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 5000)

	preview, err := f.engine.Preview(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 0, preview.EntitledSteps)
	assert.Equal(t, int64(0), preview.ExpectedAwardCents)
}

func TestPreviewInactiveRuleAllowed(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, func(r *domain.BonusRule) { r.Active = false })
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	preview, err := f.engine.Preview(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	assert.False(t, preview.RuleActive)
	assert.Equal(t, int64(1500), preview.ExpectedAwardCents)
}

func TestRunRuleAwardsReachedTier(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	out, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	require.Len(t, out.Pairs, 1)
	assert.Equal(t, evaldto.PairAwarded, out.Pairs[0].Status)
	assert.Equal(t, 2, out.Pairs[0].Steps)
	assert.Equal(t, int64(1500), out.Pairs[0].AmountCents)
	assert.Equal(t, 1, out.AwardsCreated)
	assert.Equal(t, int64(1500), out.TotalAwardedCents)
	assert.Equal(t, 1, f.publisher.published())
}

func TestRunRuleIsIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	_, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	out, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	require.Len(t, out.Pairs, 1)
	assert.Equal(t, evaldto.PairSkipped, out.Pairs[0].Status)
	assert.Equal(t, 0, out.AwardsCreated)
	assert.Equal(t, int64(1), f.countAwards(t))
}

func TestRunRuleAwardsOnlyDeltaOnTierGrowth(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-2*time.Hour), 15000)

	out, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, out.AwardsCreated)
	assert.Equal(t, int64(500), out.TotalAwardedCents)

	// Воркер дорабатывает до третьей ступени в том же окне
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 40000)

	out, err = f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)
	require.Len(t, out.Pairs, 1)
	assert.Equal(t, evaldto.PairAwarded, out.Pairs[0].Status)
	assert.Equal(t, 2, out.Pairs[0].Steps)
	assert.Equal(t, int64(4000), out.Pairs[0].AmountCents)

	assert.Equal(t, int64(2), f.countAwards(t))
}

func TestRunRuleOncePerWindow(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, func(r *domain.BonusRule) { r.Config.AwardOncePerWindow = true })
	f.backend.addEarnings(testWorkerID, asOf.Add(-2*time.Hour), 15000)

	out, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, out.AwardsCreated)

	// Рост до новой ступени уже не дает второго начисления в этом окне
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 40000)

	out, err = f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)
	require.Len(t, out.Pairs, 1)
	assert.Equal(t, evaldto.PairSkipped, out.Pairs[0].Status)
	assert.Equal(t, int64(1), f.countAwards(t))
}

func TestRunRuleWindowRolloverResetsProgress(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 15000)

	_, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	// Следующий день: прогресс нового окна начинается с нуля
	nextDay := asOf.AddDate(0, 0, 1)
	f.backend.addEarnings(testWorkerID, nextDay.Add(-time.Hour), 15000)

	out, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, nextDay)
	require.NoError(t, err)
	require.Len(t, out.Pairs, 1)
	assert.Equal(t, evaldto.PairAwarded, out.Pairs[0].Status)
	assert.Equal(t, 1, out.Pairs[0].Steps)
	assert.Equal(t, int64(2), f.countAwards(t))
}

func TestRunAllSkipsInactiveRules(t *testing.T) {
	f := newEngineFixture(t)
	f.seedRule(t, nil)
	f.seedRule(t, func(r *domain.BonusRule) {
		r.Name = "disabled bonus"
		r.Active = false
	})
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	out, err := f.engine.RunAll(context.Background(), testCompanyID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 1, out.RulesEvaluated)
	assert.Equal(t, 1, out.AwardsCreated)
}

func TestRunAllDiscoversActiveWorkers(t *testing.T) {
	f := newEngineFixture(t)
	f.seedRule(t, nil)
	f.backend.workers = []string{"worker-1", "worker-2"}
	f.backend.addEarnings("worker-1", asOf.Add(-time.Hour), 30000)
	f.backend.addEarnings("worker-2", asOf.Add(-time.Hour), 5000)

	out, err := f.engine.RunAll(context.Background(), testCompanyID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, out.PairsEvaluated)
	assert.Equal(t, 1, out.AwardsCreated)
}

func TestShiftBasedRuleUsesShiftWindow(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, func(r *domain.BonusRule) { r.Config.ShiftBased = true })

	// Ночная смена пересекает границу календарного дня
	shiftStart := time.Date(2025, 3, 14, 22, 0, 0, 0, time.UTC)
	f.backend.shift = &domain.Shift{Start: shiftStart, End: shiftStart.Add(9 * time.Hour)}
	f.backend.addEarnings(testWorkerID, shiftStart.Add(time.Hour), 30000)

	preview, err := f.engine.Preview(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	assert.Equal(t, shiftStart, preview.Window.Start)
	assert.Empty(t, preview.Window.Reason)
	assert.Equal(t, int64(30000), preview.TotalCents)
}

func TestShiftBasedRuleFallsBackToCalendarDay(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, func(r *domain.BonusRule) { r.Config.ShiftBased = true })
	f.backend.shift = nil
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	preview, err := f.engine.Preview(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	assert.Equal(t, domain.WindowReasonNoShiftFound, preview.Window.Reason)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), preview.Window.Start)
	assert.Equal(t, int64(30000), preview.TotalCents)
}

func TestRunRuleUnknownRule(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.RunRule(context.Background(), testCompanyID, uuid.New().String(), testWorkerID, asOf)
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestRunPublishesAwardEventsAsSingleBatch(t *testing.T) {
	f := newEngineFixture(t)
	f.seedRule(t, nil)
	f.backend.workers = []string{"worker-1", "worker-2"}
	f.backend.addEarnings("worker-1", asOf.Add(-time.Hour), 30000)
	f.backend.addEarnings("worker-2", asOf.Add(-time.Hour), 60000)

	out, err := f.engine.RunAll(context.Background(), testCompanyID, asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, out.AwardsCreated)

	// Все начисления запуска уходят одним батчем
	require.Len(t, f.publisher.batches, 1)
	require.Len(t, f.publisher.batches[0], 2)
	assert.Equal(t, "worker-1", f.publisher.batches[0][0].WorkerID)
	assert.Equal(t, "worker-2", f.publisher.batches[0][1].WorkerID)
}

func TestRunWithoutAwardsPublishesNothing(t *testing.T) {
	f := newEngineFixture(t)
	f.seedRule(t, nil)
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 5000)

	_, err := f.engine.RunAll(context.Background(), testCompanyID, asOf)
	require.NoError(t, err)

	assert.Empty(t, f.publisher.batches)
}

func TestRunAppliesDefaultCurrency(t *testing.T) {
	f := newEngineFixture(t)
	rule := f.seedRule(t, func(r *domain.BonusRule) { r.Config.Currency = "" })
	f.backend.addEarnings(testWorkerID, asOf.Add(-time.Hour), 30000)

	_, err := f.engine.RunRule(context.Background(), testCompanyID, rule.ID, testWorkerID, asOf)
	require.NoError(t, err)

	awards, _, err := f.awardRepo.ListAwards(context.Background(), testCompanyID, domain.AwardFilters{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "USD", awards[0].Currency)
}
