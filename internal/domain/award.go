package domain

import "time"

// BonusAward - начисленный бонус. Записи append-only:
// движок их создает и никогда не изменяет.
type BonusAward struct {
	ID               string
	CompanyID        string
	RuleID           string
	WorkerID         string
	StepsAwarded     int
	BonusAmountCents int64
	Currency         string
	WindowStart      time.Time
	WindowEnd        time.Time
	AwardedAt        time.Time
	Reason           string
	Payload          string // снапшот ступени и конфига правила на момент начисления
}

type AwardFilters struct {
	WorkerID  string
	RuleID    string
	From      time.Time
	To        time.Time
	MinAmount int64
	MaxAmount int64
}

type AwardTotals struct {
	Count            int64
	TotalAmountCents int64
}
