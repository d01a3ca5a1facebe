package domain

import "time"

// BonusProgress хранит последний наблюдаемый прогресс воркера
// внутри окна (rule, worker, window). LastObservedSteps монотонно
// не убывает в пределах одного окна.
type BonusProgress struct {
	CompanyID         string
	RuleID            string
	WorkerID          string
	WindowStart       time.Time
	WindowEnd         time.Time
	LastObservedSteps int
	LastComputedAt    time.Time
}

type ProgressFilters struct {
	WorkerID string
	RuleID   string
}
