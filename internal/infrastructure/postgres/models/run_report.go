package models

import "time"

// RunReportModel - аудит запусков движка для менеджерской отчетности
type RunReportModel struct {
	ID                string    `gorm:"primaryKey;type:uuid"`
	CompanyID         string    `gorm:"not null;index:idx_report_company"`
	AsOf              time.Time `gorm:"not null"`
	StartedAt         time.Time `gorm:"not null"`
	FinishedAt        time.Time `gorm:"not null"`
	RulesEvaluated    int       `gorm:"not null"`
	PairsEvaluated    int       `gorm:"not null"`
	AwardsCreated     int       `gorm:"not null"`
	TotalAwardedCents int64     `gorm:"not null"`
	Failures          int       `gorm:"not null"`
	CreatedAt         time.Time
}
