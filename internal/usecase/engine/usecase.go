package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/metrics"
	evaldto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/evaluation"
	"github.com/jaevor/go-nanoid"
)

// ============= ДВИЖОК ОЦЕНКИ БОНУСНЫХ ПРАВИЛ =============

type BonusEngineUsecase interface {
	// Preview оценивает пару (rule, worker) без побочных эффектов
	Preview(ctx context.Context, companyID, ruleID, workerID string, asOf time.Time) (*evaldto.PreviewOutput, error)
	// RunRule выполняет side-effecting оценку одного правила;
	// при пустом workerID - для всех воркеров с активностью в окне
	RunRule(ctx context.Context, companyID, ruleID, workerID string, asOf time.Time) (*evaldto.RunOutput, error)
	// RunAll выполняет все активные правила компании в порядке приоритета
	RunAll(ctx context.Context, companyID string, asOf time.Time) (*evaldto.RunOutput, error)
}

type DefaultBonusEngine struct {
	RuleRepo        domain.RuleRepository
	ProgressRepo    domain.ProgressRepository
	AwardRepo       domain.AwardRepository
	Earnings        domain.EarningsProvider
	Shifts          domain.ShiftProvider
	Publisher       domain.AwardPublisher
	Metrics         *metrics.BonusMetrics
	Logger          *slog.Logger
	Location        *time.Location
	DefaultCurrency string
	ConflictRetries int

	awardID func() string
	locks   *keyLocks
}

func NewDefaultBonusEngine(
	ruleRepo domain.RuleRepository,
	progressRepo domain.ProgressRepository,
	awardRepo domain.AwardRepository,
	earnings domain.EarningsProvider,
	shifts domain.ShiftProvider,
	pub domain.AwardPublisher,
	bonusMetrics *metrics.BonusMetrics,
	logger *slog.Logger,
	loc *time.Location,
	defaultCurrency string,
	conflictRetries int) (*DefaultBonusEngine, error) {

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("failed to init award id generator: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	if conflictRetries <= 0 {
		conflictRetries = 3
	}

	return &DefaultBonusEngine{
		RuleRepo:        ruleRepo,
		ProgressRepo:    progressRepo,
		AwardRepo:       awardRepo,
		Earnings:        earnings,
		Shifts:          shifts,
		Publisher:       pub,
		Metrics:         bonusMetrics,
		Logger:          logger,
		Location:        loc,
		DefaultCurrency: defaultCurrency,
		ConflictRetries: conflictRetries,
		awardID:         idGenerator,
		locks:           newKeyLocks(),
	}, nil
}

// evaluation - промежуточное состояние оценки одной пары:
// Idle -> WindowResolved -> Aggregated -> TierResolved -> Decided
type evaluation struct {
	rule          *domain.BonusRule
	workerID      string
	window        domain.Window
	totalCents    int64
	entitledSteps int
	entitledBonus int64
	lastSteps     int
	delta         int
	expectedCents int64
	awardExists   bool
}

// evaluateInWindow выполняет шаги 3-6 оценки внутри уже разрешенного окна
func (e *DefaultBonusEngine) evaluateInWindow(ctx context.Context, rule *domain.BonusRule, workerID string, window domain.Window) (*evaluation, error) {
	events, err := e.Earnings.GetEarningsInWindow(ctx, rule.CompanyID, workerID, rule.Config.Metric, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earnings: %w", err)
	}
	totalCents := AggregateEarnings(events, rule.Config.Metric, rule.Config.IncludeRefunds)

	ev := &evaluation{
		rule:       rule,
		workerID:   workerID,
		window:     window,
		totalCents: totalCents,
	}

	if tier := ResolveTier(totalCents, rule.Config.Tiers); tier != nil {
		ev.entitledSteps = tier.Steps
		ev.entitledBonus = tier.BonusCents
	}

	progress, err := e.ProgressRepo.GetProgress(ctx, rule.CompanyID, rule.ID, workerID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if progress != nil {
		ev.lastSteps = progress.LastObservedSteps
	}

	ev.delta = ev.entitledSteps - ev.lastSteps

	if rule.Config.AwardOncePerWindow {
		exists, err := e.AwardRepo.AwardExists(ctx, rule.CompanyID, rule.ID, workerID, window.Start, window.End)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing awards: %w", err)
		}
		ev.awardExists = exists
	}

	if ev.delta > 0 && !(rule.Config.AwardOncePerWindow && ev.awardExists) {
		ev.expectedCents = ev.entitledBonus
	}

	return ev, nil
}

func (e *DefaultBonusEngine) evaluate(ctx context.Context, rule *domain.BonusRule, workerID string, asOf time.Time) (*evaluation, error) {
	window := e.resolveWindow(ctx, rule, workerID, asOf)
	return e.evaluateInWindow(ctx, rule, workerID, window)
}

func reasonFor(ev *evaluation) string {
	switch {
	case ev.entitledSteps == 0:
		return fmt.Sprintf("total %d cents is below the first tier minimum", ev.totalCents)
	case ev.rule.Config.AwardOncePerWindow && ev.awardExists:
		return "award already issued for this window"
	case ev.delta <= 0:
		return fmt.Sprintf("tier %d already awarded, no new tier reached", ev.lastSteps)
	default:
		return fmt.Sprintf("reached tier %d (min %d cents) with total %d cents", ev.entitledSteps, tierMin(ev), ev.totalCents)
	}
}

func tierMin(ev *evaluation) int64 {
	sorted := ev.rule.Config.SortedTiers()
	if ev.entitledSteps < 1 || ev.entitledSteps > len(sorted) {
		return 0
	}
	return sorted[ev.entitledSteps-1].MinAmountCents
}
