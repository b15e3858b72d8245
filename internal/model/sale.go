package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a multi-line counter sale. Stock leaves through one SALE_DEBIT
// ledger entry per line, posted in the same transaction as the sale itself.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID       int             `gorm:"not null;index;uniqueIndex:uq_sale_idem,priority:1"`
	ReceiptNumber string          `gorm:"not null;index"`
	SaleType      string          `gorm:"type:varchar(10);not null;default:'POS'"` // POS | BULK
	PaymentMethod string          `gorm:"type:varchar(10);not null"`               // CASH | UPI | CARD | BANK
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalWeight   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	CustomerName  *string
	CustomerPhone *string
	IdempotencyKey string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_sale_idem,priority:2"`
	CashierID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is one weighed line of a sale.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKUID      uuid.UUID       `gorm:"type:uuid;not null"`
	Weight     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PricePerKg decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	SKU *SKU `gorm:"foreignKey:SKUID"`
}

func (SaleItem) TableName() string { return "sale_items" }
