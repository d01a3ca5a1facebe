package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	evaldto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/evaluation"
)

const (
	awardEventsTopic = "bonus-award-events"
	publishBatchSize = 100
	publishRetries   = 3
)

// RunRule выполняет одно правило. При пустом workerID оцениваются все
// воркеры с активностью в окне правила.
func (e *DefaultBonusEngine) RunRule(ctx context.Context, companyID, ruleID, workerID string, asOf time.Time) (*evaldto.RunOutput, error) {
	rule, err := e.RuleRepo.GetRuleByID(ctx, companyID, ruleID)
	if err != nil {
		return nil, err
	}

	out := e.newRunOutput(companyID, asOf)
	awards := e.runRule(ctx, rule, workerID, asOf, out)
	out.FinishedAt = time.Now()

	e.publishAwards(awards)
	return out, nil
}

// RunAll выполняет все активные правила компании.
// Правила независимы и выполняются по возрастанию приоритета.
func (e *DefaultBonusEngine) RunAll(ctx context.Context, companyID string, asOf time.Time) (*evaldto.RunOutput, error) {
	rules, err := e.RuleRepo.ListRules(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}

	out := e.newRunOutput(companyID, asOf)
	var awards []*domain.BonusAward
	for _, rule := range rules {
		// Батч прерываем между правилами: уже закоммиченные пары валидны
		if ctx.Err() != nil {
			break
		}
		awards = append(awards, e.runRule(ctx, rule, "", asOf, out)...)
	}
	out.FinishedAt = time.Now()

	e.publishAwards(awards)

	e.Logger.Info("engine run finished",
		"company_id", companyID,
		"rules_evaluated", out.RulesEvaluated,
		"awards_created", out.AwardsCreated,
		"total_awarded_cents", out.TotalAwardedCents,
		"failures", out.Failures)

	return out, nil
}

func (e *DefaultBonusEngine) newRunOutput(companyID string, asOf time.Time) *evaldto.RunOutput {
	return &evaldto.RunOutput{
		CompanyID: companyID,
		AsOf:      asOf,
		StartedAt: time.Now(),
		Pairs:     make([]evaldto.PairOutput, 0),
	}
}

func (e *DefaultBonusEngine) runRule(ctx context.Context, rule *domain.BonusRule, workerID string, asOf time.Time, out *evaldto.RunOutput) []*domain.BonusAward {
	// Неактивные правила пропускаются молча
	if !rule.Active {
		return nil
	}
	out.RulesEvaluated++

	workerIDs := []string{workerID}
	if workerID == "" {
		window := ComputeWindow(rule.WindowType, asOf, e.Location)
		ids, err := e.Earnings.ListActiveWorkers(ctx, rule.CompanyID, window.Start, window.End)
		if err != nil {
			e.Logger.Error("failed to list active workers", "rule_id", rule.ID, "error", err)
			out.Failures++
			out.Pairs = append(out.Pairs, evaldto.PairOutput{
				RuleID: rule.ID,
				Status: evaldto.PairFailed,
				Reason: fmt.Sprintf("failed to list active workers: %v", err),
			})
			return nil
		}
		workerIDs = ids
	}

	var awards []*domain.BonusAward
	for _, id := range workerIDs {
		if ctx.Err() != nil {
			return awards
		}
		pair, award := e.runPair(ctx, rule, id, asOf)
		out.PairsEvaluated++
		out.Pairs = append(out.Pairs, pair)

		switch pair.Status {
		case evaldto.PairAwarded:
			out.AwardsCreated++
			out.TotalAwardedCents += pair.AmountCents
			awards = append(awards, award)
		case evaldto.PairFailed:
			out.Failures++
		}
	}
	return awards
}

// runPair оценивает и при необходимости начисляет бонус одной паре.
// Ошибка пары не фатальна для батча - остальные пары продолжаются.
func (e *DefaultBonusEngine) runPair(ctx context.Context, rule *domain.BonusRule, workerID string, asOf time.Time) (evaldto.PairOutput, *domain.BonusAward) {
	started := time.Now()
	window := e.resolveWindow(ctx, rule, workerID, asOf)

	// Конкурентные запуски по одному ключу сериализуются;
	// preview на этот лок никогда не встает
	unlock := e.locks.acquire(evaluationKey(rule.CompanyID, rule.ID, workerID, window.Start))
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= e.ConflictRetries; attempt++ {
		pair, award, err := e.tryAward(ctx, rule, workerID, window)
		if err == nil {
			if e.Metrics != nil {
				e.Metrics.RecordEvaluationDuration(rule.CompanyID, time.Since(started).Seconds())
			}
			return pair, award
		}

		if errors.Is(err, domain.ErrProgressConflict) {
			lastErr = err
			if e.Metrics != nil {
				e.Metrics.RecordProgressConflict(rule.CompanyID)
			}
			e.Logger.Warn("progress conflict, retrying",
				"rule_id", rule.ID, "worker_id", workerID, "attempt", attempt)
			if attempt < e.ConflictRetries {
				time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
			}
			continue
		}

		if e.Metrics != nil {
			e.Metrics.RecordEvaluationError(rule.CompanyID, "evaluation")
		}
		e.Logger.Error("pair evaluation failed", "rule_id", rule.ID, "worker_id", workerID, "error", err)
		return evaldto.PairOutput{
			RuleID:   rule.ID,
			WorkerID: workerID,
			Status:   evaldto.PairFailed,
			Reason:   err.Error(),
		}, nil
	}

	return evaldto.PairOutput{
		RuleID:   rule.ID,
		WorkerID: workerID,
		Status:   evaldto.PairFailed,
		Reason:   fmt.Sprintf("progress conflict retries exhausted: %v", lastErr),
	}, nil
}

func (e *DefaultBonusEngine) tryAward(ctx context.Context, rule *domain.BonusRule, workerID string, window domain.Window) (evaldto.PairOutput, *domain.BonusAward, error) {
	ev, err := e.evaluateInWindow(ctx, rule, workerID, window)
	if err != nil {
		return evaldto.PairOutput{}, nil, err
	}

	if e.Metrics != nil {
		e.Metrics.RecordEvaluation(rule.CompanyID)
	}

	if ev.expectedCents == 0 || ev.delta <= 0 {
		// Идемпотентный no-op: ни Award, ни изменения Progress
		return evaldto.PairOutput{
			RuleID:   rule.ID,
			WorkerID: workerID,
			Status:   evaldto.PairSkipped,
			Steps:    ev.lastSteps,
			Reason:   reasonFor(ev),
		}, nil, nil
	}

	stepsAwarded := ev.delta
	if rule.Config.AwardOncePerWindow {
		// Единственное начисление окна отражает весь заработанный уровень
		stepsAwarded = ev.entitledSteps
	}

	currency := rule.Config.Currency
	if currency == "" {
		currency = e.DefaultCurrency
	}

	award := &domain.BonusAward{
		ID:               e.awardID(),
		CompanyID:        rule.CompanyID,
		RuleID:           rule.ID,
		WorkerID:         workerID,
		StepsAwarded:     stepsAwarded,
		BonusAmountCents: ev.expectedCents,
		Currency:         currency,
		WindowStart:      window.Start,
		WindowEnd:        window.End,
		AwardedAt:        time.Now(),
		Reason:           reasonFor(ev),
		Payload:          snapshotPayload(rule, ev),
	}
	progress := &domain.BonusProgress{
		CompanyID:         rule.CompanyID,
		RuleID:            rule.ID,
		WorkerID:          workerID,
		WindowStart:       window.Start,
		WindowEnd:         window.End,
		LastObservedSteps: ev.entitledSteps,
		LastComputedAt:    award.AwardedAt,
	}

	if err := e.AwardRepo.CommitAward(ctx, award, progress, rule.Config.AwardOncePerWindow); err != nil {
		if errors.Is(err, domain.ErrAwardAlreadyExists) {
			// Констрейнт хранилища - вторая линия защиты once-per-window
			return evaldto.PairOutput{
				RuleID:   rule.ID,
				WorkerID: workerID,
				Status:   evaldto.PairSkipped,
				Steps:    ev.lastSteps,
				Reason:   "award already issued for this window",
			}, nil, nil
		}
		return evaldto.PairOutput{}, nil, err
	}

	if e.Metrics != nil {
		e.Metrics.RecordAward(rule.CompanyID, rule.ID, award.Currency, award.BonusAmountCents)
	}
	e.Logger.Info("bonus awarded",
		"award_id", award.ID,
		"rule_id", rule.ID,
		"worker_id", workerID,
		"amount_cents", award.BonusAmountCents,
		"steps", award.StepsAwarded)

	return evaldto.PairOutput{
		RuleID:      rule.ID,
		WorkerID:    workerID,
		Status:      evaldto.PairAwarded,
		AwardID:     award.ID,
		AmountCents: award.BonusAmountCents,
		Steps:       award.StepsAwarded,
		Reason:      award.Reason,
	}, award, nil
}

// publishAwards отправляет события о начислениях батчем после завершения
// запуска; ошибка публикации не откатывает уже закоммиченные начисления
func (e *DefaultBonusEngine) publishAwards(awards []*domain.BonusAward) {
	if e.Publisher == nil || len(awards) == 0 {
		return
	}

	if err := e.Publisher.BatchPublishAwardsWithRetry(awardEventsTopic, awards, publishBatchSize, publishRetries); err != nil {
		e.Logger.Error("failed to publish award events", "count", len(awards), "error", err)
	}
}

func snapshotPayload(rule *domain.BonusRule, ev *evaluation) string {
	snapshot := struct {
		TierSteps      int               `json:"tier_steps"`
		MinAmountCents int64             `json:"min_amount_cents"`
		BonusCents     int64             `json:"bonus_cents"`
		TotalCents     int64             `json:"total_cents"`
		Config         domain.RuleConfig `json:"config"`
	}{
		TierSteps:      ev.entitledSteps,
		MinAmountCents: tierMin(ev),
		BonusCents:     ev.entitledBonus,
		TotalCents:     ev.totalCents,
		Config:         rule.Config,
	}

	v, err := json.Marshal(snapshot)
	if err != nil {
		return "{}"
	}
	return string(v)
}
