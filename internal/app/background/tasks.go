package background

import (
	"context"
	"log"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-bonus-service/internal/usecase/engine"
)

type BackgroundTasks struct {
	BonusEngine engine.BonusEngineUsecase
	RunLogger   logger.RunReportLogger
	Companies   []string
	RunInterval time.Duration
}

func NewBackgroundTasks(bonusEngine engine.BonusEngineUsecase, runLogger logger.RunReportLogger, companies []string, runInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		BonusEngine: bonusEngine,
		RunLogger:   runLogger,
		Companies:   companies,
		RunInterval: runInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	// Нулевой интервал выключает планировщик: запуски только через API
	if bt.RunInterval <= 0 {
		return
	}
	go bt.startScheduledRuns(ctx)
}

// startScheduledRuns периодически прогоняет все активные правила.
// Каждый прогон идемпотентен, поэтому частота тикера влияет только
// на задержку начислений, не на их сумму.
func (bt *BackgroundTasks) startScheduledRuns(ctx context.Context) {
	ticker := time.NewTicker(bt.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, companyID := range bt.Companies {
				report, err := bt.BonusEngine.RunAll(ctx, companyID, time.Now())
				if err != nil {
					log.Printf("Scheduled run error for company %s: %v\n", companyID, err)
					continue
				}
				if err := bt.RunLogger.LogRun(ctx, report); err != nil {
					log.Printf("Failed to persist run report for company %s: %v\n", companyID, err)
				}
			}
		}
	}
}
