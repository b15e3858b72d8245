package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a receipt of live birds from a supplier. It only touches stock
// when committed: Commit appends a single PURCHASE_RECEIVED credit on the
// LIVE partition in the same transaction as the status flip.
type Purchase struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreID     int             `gorm:"not null;index"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;not null"`
	BirdType    string          `gorm:"type:varchar(20);not null"`
	BirdCount   int             `gorm:"not null"`
	TotalWeight decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PricePerKg  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'DRAFT'"` // DRAFT | COMMITTED | CANCELLED
	Notes       *string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CommittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (Purchase) TableName() string { return "purchases" }
