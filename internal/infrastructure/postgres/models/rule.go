package models

import (
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

type BonusRuleModel struct {
	ID         string            `gorm:"primaryKey;type:uuid"`
	CompanyID  string            `gorm:"not null;index:idx_rule_company"`
	Name       string            `gorm:"not null"`
	Scope      domain.RuleScope  `gorm:"not null"`
	WindowType domain.WindowType `gorm:"not null"`
	RuleType   domain.RuleType   `gorm:"not null"`
	Priority   int               `gorm:"default:0"` // меньший приоритет выполняется первым
	IsActive   bool              `gorm:"default:true;index:idx_rule_company"`
	Config     string            `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
