package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is a single immutable stock movement. The current balance of a
// (store, bird_type, inventory_state) partition is the sum of quantity_delta
// over its stock-affecting entries — there is no mutable "stock" column
// anywhere. Entries are NEVER updated or deleted; a database trigger rejects
// both (see infra schema patches). Corrections are new compensating entries.
type LedgerEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID        int             `gorm:"not null;index:idx_ledger_partition,priority:1"`
	BirdType       string          `gorm:"type:varchar(20);not null;index:idx_ledger_partition,priority:2"`
	InventoryState string          `gorm:"type:varchar(20);not null;index:idx_ledger_partition,priority:3"`
	QuantityDelta  decimal.Decimal `gorm:"type:decimal(10,3);not null"` // kg, signed
	BirdCountChange int            `gorm:"not null;default:0"`
	ReasonCode     string          `gorm:"type:varchar(40);not null;index"`
	SKUID          *uuid.UUID      `gorm:"type:uuid"`
	// ReferenceType/ReferenceID point at the originating document
	// (PURCHASE, PROCESSING, SALE, TRANSFER, SETTLEMENT, ADJUSTMENT).
	ReferenceType *string    `gorm:"type:varchar(20)"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid"`
	ActorID       uuid.UUID  `gorm:"type:uuid;not null"`
	Notes         *string
	CreatedAt     time.Time `gorm:"index:idx_ledger_partition,priority:4"`
}

func (LedgerEntry) TableName() string { return "inventory_ledger" }

// Reference document kinds carried on ledger entries.
const (
	RefPurchase   = "PURCHASE"
	RefProcessing = "PROCESSING"
	RefSale       = "SALE"
	RefTransfer   = "TRANSFER"
	RefSettlement = "SETTLEMENT"
	RefAdjustment = "ADJUSTMENT"
)
