package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BonusMetrics содержит все метрики движка бонусов
type BonusMetrics struct {
	// Оценки пар (rule, worker)
	EvaluationsTotal   prometheus.CounterVec
	EvaluationDuration prometheus.HistogramVec

	// Начисления
	AwardsCreatedTotal prometheus.CounterVec
	AwardAmountTotal   prometheus.CounterVec

	// Конфликты прогресса (конкурентные запуски)
	ProgressConflictsTotal prometheus.CounterVec

	// Ошибки
	EvaluationErrorsTotal prometheus.CounterVec
}

// NewBonusMetrics создает новый экземпляр метрик
func NewBonusMetrics() *BonusMetrics {
	return &BonusMetrics{
		EvaluationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonus_evaluations_total",
				Help: "Общее количество оценок пар (правило, воркер)",
			},
			[]string{"company_id"},
		),

		EvaluationDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bonus_evaluation_duration_seconds",
				Help:    "Время оценки одной пары в секундах",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
			[]string{"company_id"},
		),

		AwardsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonus_awards_created_total",
				Help: "Общее количество созданных начислений",
			},
			[]string{"company_id", "rule_id"},
		),

		AwardAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonus_award_amount_cents_total",
				Help: "Общая сумма начисленных бонусов в центах",
			},
			[]string{"company_id", "currency"},
		),

		ProgressConflictsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonus_progress_conflicts_total",
				Help: "Количество конфликтов конкурентной записи прогресса",
			},
			[]string{"company_id"},
		),

		EvaluationErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bonus_evaluation_errors_total",
				Help: "Общее количество ошибок при оценке пар",
			},
			[]string{"company_id", "error_type"},
		),
	}
}

// RecordEvaluation записывает выполненную оценку пары
func (m *BonusMetrics) RecordEvaluation(companyID string) {
	m.EvaluationsTotal.WithLabelValues(companyID).Inc()
}

// RecordEvaluationDuration записывает время оценки пары
func (m *BonusMetrics) RecordEvaluationDuration(companyID string, durationSeconds float64) {
	m.EvaluationDuration.WithLabelValues(companyID).Observe(durationSeconds)
}

// RecordAward записывает созданное начисление
func (m *BonusMetrics) RecordAward(companyID, ruleID, currency string, amountCents int64) {
	m.AwardsCreatedTotal.WithLabelValues(companyID, ruleID).Inc()
	m.AwardAmountTotal.WithLabelValues(companyID, currency).Add(float64(amountCents))
}

// RecordProgressConflict записывает конфликт конкурентной записи
func (m *BonusMetrics) RecordProgressConflict(companyID string) {
	m.ProgressConflictsTotal.WithLabelValues(companyID).Inc()
}

// RecordEvaluationError записывает ошибку оценки
func (m *BonusMetrics) RecordEvaluationError(companyID, errorType string) {
	m.EvaluationErrorsTotal.WithLabelValues(companyID, errorType).Inc()
}
