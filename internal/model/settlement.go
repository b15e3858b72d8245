package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMatrix is the full bird_type -> inventory_state -> kg grid. Every
// matrix carries all six partitions, zero-filled.
type StockMatrix map[string]map[string]decimal.Decimal

// NewStockMatrix returns a zero-filled matrix over the fixed partition grid.
func NewStockMatrix() StockMatrix {
	m := make(StockMatrix, len(AllBirdTypes))
	for _, b := range AllBirdTypes {
		m[b] = make(map[string]decimal.Decimal, len(AllInventoryStates))
		for _, s := range AllInventoryStates {
			m[b][s] = decimal.Zero
		}
	}
	return m
}

// Get is nil-safe: a missing cell reads as zero.
func (m StockMatrix) Get(bird, state string) decimal.Decimal {
	if row, ok := m[bird]; ok {
		return row[state]
	}
	return decimal.Zero
}

// VarianceCell is one partition's declared-vs-expected snapshot, frozen at
// submit time.
type VarianceCell struct {
	Expected decimal.Decimal `json:"expected"`
	Declared decimal.Decimal `json:"declared"`
	Variance decimal.Decimal `json:"variance"` // declared - expected
	Type     string          `json:"type"`     // ZERO | POSITIVE | NEGATIVE
}

// VarianceMatrix mirrors StockMatrix with per-cell variance detail.
type VarianceMatrix map[string]map[string]VarianceCell

// CashSummary is payment method -> amount.
type CashSummary map[string]decimal.Decimal

// Settlement is the end-of-day blind-count reconciliation for one store and
// one business date. At most one settlement exists per (store, date).
// Lifecycle: DRAFT -> SUBMITTED -> APPROVED -> LOCKED; LOCKED is terminal.
// The expected/variance fields are snapshots written once at submit and
// never recomputed afterwards.
type Settlement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        int       `gorm:"not null;uniqueIndex:uq_settlement_day,priority:1"`
	SettlementDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_settlement_day,priority:2"`
	Status         string    `gorm:"type:varchar(20);not null;default:'DRAFT'"`

	// Declared by the counting staff, without seeing expected values.
	DeclaredStock StockMatrix     `gorm:"serializer:json"`
	DeclaredCash  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeclaredCard  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeclaredBank  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Expenses      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Computed at submit.
	ExpectedStock      StockMatrix     `gorm:"serializer:json"`
	ExpectedCash       CashSummary     `gorm:"serializer:json"`
	CalculatedVariance VarianceMatrix  `gorm:"serializer:json"`
	CashVariance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Notes       *string
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`
	SubmittedBy *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt *time.Time
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	LockedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Settlement) TableName() string { return "daily_settlements" }
