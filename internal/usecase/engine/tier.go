package engine

import "github.com/LavaJover/shvark-bonus-service/internal/domain"

// ============= РАЗРЕШЕНИЕ СТУПЕНЕЙ =============

// TierResult - разрешенная ступень выплаты.
// Steps - порядковый номер ступени (1-based) в отсортированном списке.
type TierResult struct {
	TierIndex      int
	MinAmountCents int64
	BonusCents     int64
	Steps          int
}

// ResolveTier находит старшую ступень, чей минимум не превышает total.
// Возвращает nil, если total ниже всех минимумов. При дублирующихся
// минимумах побеждает ступень с большим бонусом - результат не зависит
// от порядка ступеней в конфиге.
func ResolveTier(totalCents int64, tiers []domain.Tier) *TierResult {
	sorted := (&domain.RuleConfig{Tiers: tiers}).SortedTiers()

	var result *TierResult
	for i, tier := range sorted {
		if tier.MinAmountCents > totalCents {
			break
		}
		result = &TierResult{
			TierIndex:      i,
			MinAmountCents: tier.MinAmountCents,
			BonusCents:     tier.BonusCents,
			Steps:          i + 1,
		}
	}

	return result
}
