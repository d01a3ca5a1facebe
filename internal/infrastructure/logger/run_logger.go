package logger

import (
	"context"

	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	evaldto "github.com/LavaJover/shvark-bonus-service/internal/usecase/dto/evaluation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunReportLogger сохраняет отчеты о запусках движка для аудита
type RunReportLogger interface {
	LogRun(ctx context.Context, report *evaldto.RunOutput) error
}

type PGRunReportLogger struct {
	db *gorm.DB
}

func NewPGRunReportLogger(db *gorm.DB) *PGRunReportLogger {
	return &PGRunReportLogger{db: db}
}

func (l *PGRunReportLogger) LogRun(ctx context.Context, report *evaldto.RunOutput) error {
	model := &models.RunReportModel{
		ID:                uuid.New().String(),
		CompanyID:         report.CompanyID,
		AsOf:              report.AsOf,
		StartedAt:         report.StartedAt,
		FinishedAt:        report.FinishedAt,
		RulesEvaluated:    report.RulesEvaluated,
		PairsEvaluated:    report.PairsEvaluated,
		AwardsCreated:     report.AwardsCreated,
		TotalAwardedCents: report.TotalAwardedCents,
		Failures:          report.Failures,
	}
	return l.db.WithContext(ctx).Create(model).Error
}

func (l *PGRunReportLogger) ListRuns(ctx context.Context, companyID string, limit int) ([]models.RunReportModel, error) {
	if limit <= 0 {
		limit = 50
	}
	var reports []models.RunReportModel
	err := l.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("started_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
