package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-bonus-service/internal/client"
	"github.com/LavaJover/shvark-bonus-service/internal/config"
	"github.com/LavaJover/shvark-bonus-service/internal/domain"
	publisher "github.com/LavaJover/shvark-bonus-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config         *config.BonusConfig
	DB             *gorm.DB
	AwardPublisher *publisher.DefaultKafkaPublisher
	Backend        *client.HTTPBackendClient
	Metrics        *metrics.BonusMetrics
	RunLogger      *logger.PGRunReportLogger
	Repositories   *Repositories
}

type Repositories struct {
	RuleRepo     domain.RuleRepository
	ProgressRepo domain.ProgressRepository
	AwardRepo    domain.AwardRepository
}

func InitializeDependencies() (*Dependencies, error) {
	cfg := config.MustLoad()

	db := postgres.MustInitDB(cfg)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	awardPublisher := publisher.NewDefaultKafkaPublisher(brokers)

	backend, err := client.NewHTTPBackendClient(fmt.Sprintf("http://%s:%s", cfg.BackendService.Host, cfg.BackendService.Port))
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}

	repos := &Repositories{
		RuleRepo:     repository.NewDefaultRuleRepository(db),
		ProgressRepo: repository.NewDefaultProgressRepository(db),
		AwardRepo:    repository.NewDefaultAwardRepository(db),
	}

	return &Dependencies{
		Config:         cfg,
		DB:             db,
		AwardPublisher: awardPublisher,
		Backend:        backend,
		Metrics:        metrics.NewBonusMetrics(),
		RunLogger:      logger.NewPGRunReportLogger(db),
		Repositories:   repos,
	}, nil
}
