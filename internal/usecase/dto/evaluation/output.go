package evaldto

import (
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

// PreviewOutput - результат предпросмотра: все промежуточные значения
// оценки без каких-либо побочных эффектов.
type PreviewOutput struct {
	RuleID             string        `json:"rule_id"`
	WorkerID           string        `json:"worker_id"`
	RuleActive         bool          `json:"rule_active"`
	Window             domain.Window `json:"window"`
	TotalCents         int64         `json:"total_cents"`
	EntitledSteps      int           `json:"entitled_steps"`
	EntitledBonusCents int64         `json:"entitled_bonus_cents"`
	LastObservedSteps  int           `json:"last_observed_steps"`
	Delta              int           `json:"delta"`
	ExpectedAwardCents int64         `json:"expected_award_cents"`
	Reason             string        `json:"reason"`
}

type PairStatus string

const (
	PairAwarded PairStatus = "AWARDED"
	PairSkipped PairStatus = "SKIPPED"
	PairFailed  PairStatus = "FAILED"
)

type PairOutput struct {
	RuleID      string     `json:"rule_id"`
	WorkerID    string     `json:"worker_id"`
	Status      PairStatus `json:"status"`
	AwardID     string     `json:"award_id,omitempty"`
	AmountCents int64      `json:"amount_cents"`
	Steps       int        `json:"steps"`
	Reason      string     `json:"reason"`
}

// RunOutput - агрегированный отчет о side-effecting запуске движка
type RunOutput struct {
	CompanyID         string       `json:"company_id"`
	AsOf              time.Time    `json:"as_of"`
	StartedAt         time.Time    `json:"started_at"`
	FinishedAt        time.Time    `json:"finished_at"`
	RulesEvaluated    int          `json:"rules_evaluated"`
	PairsEvaluated    int          `json:"pairs_evaluated"`
	AwardsCreated     int          `json:"awards_created"`
	TotalAwardedCents int64        `json:"total_awarded_cents"`
	Failures          int          `json:"failures"`
	Pairs             []PairOutput `json:"pairs"`
}
