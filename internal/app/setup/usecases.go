package setup

import (
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/usecase"
	"github.com/LavaJover/shvark-bonus-service/internal/usecase/engine"
)

type Usecases struct {
	RuleUsecase usecase.RuleUsecase
	BonusEngine engine.BonusEngineUsecase
}

func InitializeUsecases(deps *Dependencies, logger *slog.Logger, loc *time.Location) (*Usecases, error) {
	bonusEngine, err := engine.NewDefaultBonusEngine(
		deps.Repositories.RuleRepo,
		deps.Repositories.ProgressRepo,
		deps.Repositories.AwardRepo,
		deps.Backend,
		deps.Backend,
		deps.AwardPublisher,
		deps.Metrics,
		logger,
		loc,
		deps.Config.Engine.DefaultCurrency,
		deps.Config.Engine.ConflictRetries,
	)
	if err != nil {
		return nil, err
	}

	return &Usecases{
		RuleUsecase: usecase.NewDefaultRuleUsecase(deps.Repositories.RuleRepo),
		BonusEngine: bonusEngine,
	}, nil
}
