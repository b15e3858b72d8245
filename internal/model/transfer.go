package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransfer moves weight between stores: a TRANSFER_OUT debit at the
// source and a TRANSFER_IN credit at the destination, both in one transaction.
type StockTransfer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FromStoreID    int             `gorm:"not null;index"`
	ToStoreID      int             `gorm:"not null;index"`
	BirdType       string          `gorm:"type:varchar(20);not null"`
	InventoryState string          `gorm:"type:varchar(20);not null"`
	Weight         decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	BirdCount      int             `gorm:"not null;default:0"`
	Notes          *string
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
}

func (StockTransfer) TableName() string { return "stock_transfers" }
