package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcessingRun converts LIVE weight into a processed state. One run posts
// three ledger entries atomically: PROCESSING_DEBIT (-input on LIVE),
// PROCESSING_CREDIT (+output on the target state) and a WASTAGE audit row
// carrying the loss. output = input * (1 - pct/100), so
// output + wastage == input always holds.
type ProcessingRun struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        int             `gorm:"not null;index;uniqueIndex:uq_processing_idem,priority:1"`
	BirdType       string          `gorm:"type:varchar(20);not null"`
	OutputState    string          `gorm:"type:varchar(20);not null"`
	InputWeight    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	OutputWeight   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	WastageWeight  decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	WastagePercent decimal.Decimal `gorm:"type:decimal(6,3);not null"` // snapshot of the config used
	BirdCount      int             `gorm:"not null;default:0"`
	IdempotencyKey string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_processing_idem,priority:2"`
	OperatorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Notes          *string
	CreatedAt      time.Time
}

func (ProcessingRun) TableName() string { return "processing_runs" }
