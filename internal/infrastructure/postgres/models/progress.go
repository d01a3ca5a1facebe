package models

import "time"

// BonusProgressModel - прогресс пары (rule, worker) внутри окна.
// Уникальный индекс по ключу окна: rollover окна создает новую строку,
// старые строки остаются как история.
type BonusProgressModel struct {
	ID                uint      `gorm:"primaryKey"`
	CompanyID         string    `gorm:"not null;uniqueIndex:idx_progress_key"`
	RuleID            string    `gorm:"type:uuid;not null;uniqueIndex:idx_progress_key"`
	WorkerID          string    `gorm:"not null;uniqueIndex:idx_progress_key"`
	WindowStart       time.Time `gorm:"not null;uniqueIndex:idx_progress_key"`
	WindowEnd         time.Time `gorm:"not null;uniqueIndex:idx_progress_key"`
	LastObservedSteps int       `gorm:"not null;default:0"`
	LastComputedAt    time.Time `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
