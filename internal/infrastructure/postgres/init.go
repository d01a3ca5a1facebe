package postgres

import (
	"log"

	"github.com/LavaJover/shvark-bonus-service/internal/config"
	"github.com/LavaJover/shvark-bonus-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.BonusConfig) *gorm.DB {
	dsn := cfg.BonusDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.BonusRuleModel{},
		&models.BonusProgressModel{},
		&models.BonusAwardModel{},
		&models.RunReportModel{},
	)

	return db
}
