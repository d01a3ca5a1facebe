package engine

import (
	"context"
	"time"

	evaldto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/evaluation"
)

// Preview возвращает все промежуточные значения оценки без записи
// Award и без изменения Progress - сколько бы раз его ни вызывали.
// Неактивные правила допускаются: результат помечается rule_active=false.
func (e *DefaultBonusEngine) Preview(ctx context.Context, companyID, ruleID, workerID string, asOf time.Time) (*evaldto.PreviewOutput, error) {
	rule, err := e.RuleRepo.GetRuleByID(ctx, companyID, ruleID)
	if err != nil {
		return nil, err
	}

	ev, err := e.evaluate(ctx, rule, workerID, asOf)
	if err != nil {
		return nil, err
	}

	return &evaldto.PreviewOutput{
		RuleID:             rule.ID,
		WorkerID:           workerID,
		RuleActive:         rule.Active,
		Window:             ev.window,
		TotalCents:         ev.totalCents,
		EntitledSteps:      ev.entitledSteps,
		EntitledBonusCents: ev.entitledBonus,
		LastObservedSteps:  ev.lastSteps,
		Delta:              ev.delta,
		ExpectedAwardCents: ev.expectedCents,
		Reason:             reasonFor(ev),
	}, nil
}
