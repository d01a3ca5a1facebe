package models

import "time"

// BonusAwardModel - append-only запись о начислении.
// WindowKey заполняется только для правил award_once_per_window:
// уникальный индекс - вторая линия защиты от двойного начисления.
type BonusAwardModel struct {
	ID               string    `gorm:"primaryKey"`
	CompanyID        string    `gorm:"not null;index:idx_award_company"`
	RuleID           string    `gorm:"type:uuid;not null;index:idx_award_rule"`
	WorkerID         string    `gorm:"not null;index:idx_award_worker"`
	StepsAwarded     int       `gorm:"not null"`
	BonusAmountCents int64     `gorm:"not null"`
	Currency         string    `gorm:"not null"`
	WindowStart      time.Time `gorm:"not null"`
	WindowEnd        time.Time `gorm:"not null"`
	AwardedAt        time.Time `gorm:"not null;index:idx_award_awarded_at"`
	Reason           string
	Payload          string  `gorm:"type:jsonb"`
	WindowKey        *string `gorm:"uniqueIndex:idx_award_window_key"`
	CreatedAt        time.Time
}
