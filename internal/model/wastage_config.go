package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WastageConfig fixes the processing loss for converting LIVE birds into a
// target state. Percentage is 0–100 with three decimals of precision. The
// most recent active row with effective_date <= the run date wins.
type WastageConfig struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BirdType      string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_wastage,priority:1"`
	TargetState   string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_wastage,priority:2"`
	Percentage    decimal.Decimal `gorm:"type:decimal(6,3);not null"`
	EffectiveDate time.Time       `gorm:"type:date;not null;uniqueIndex:uq_wastage,priority:3"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
}

func (WastageConfig) TableName() string { return "wastage_config" }
