package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VarianceLog records one non-trivial partition discrepancy found at
// settlement submit. Negative variances are deducted from stock immediately
// (status DEDUCTED, irrevocable); positive ones stay PENDING until a manager
// approves (credit) or rejects (write-off).
type VarianceLog struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SettlementID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID        int             `gorm:"not null;index"`
	BirdType       string          `gorm:"type:varchar(20);not null"`
	InventoryState string          `gorm:"type:varchar(20);not null"`
	ExpectedQty    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	DeclaredQty    decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	VarianceQty    decimal.Decimal `gorm:"type:decimal(10,3);not null"` // declared - expected
	VarianceType   string          `gorm:"type:varchar(10);not null"`   // POSITIVE | NEGATIVE
	Status         string          `gorm:"type:varchar(10);not null;default:'PENDING'"`
	// LedgerEntryID links the VARIANCE_* entry once one is posted.
	LedgerEntryID   *uuid.UUID `gorm:"type:uuid"`
	ResolvedBy      *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt      *time.Time
	ResolutionNotes *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Settlement *Settlement `gorm:"foreignKey:SettlementID"`
}

func (VarianceLog) TableName() string { return "variance_logs" }
