package engine

import "github.com/LavaJover/shvark-bonus-service/internal/domain"

// ============= АГРЕГАЦИЯ МЕТРИКИ =============

// AggregateEarnings суммирует события заработка по метрике.
// includeRefunds=false полностью исключает отрицательные записи;
// includeRefunds=true суммирует все, но итог не опускается ниже нуля -
// правило никогда не "должно" отрицательный бонус.
func AggregateEarnings(events []domain.EarningsEvent, metric string, includeRefunds bool) int64 {
	var total int64
	for _, event := range events {
		if event.Metric != "" && event.Metric != metric {
			continue
		}
		if !includeRefunds && event.AmountCents < 0 {
			continue
		}
		total += event.AmountCents
	}

	if includeRefunds && total < 0 {
		total = 0
	}
	return total
}
