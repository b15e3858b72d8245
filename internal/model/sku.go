package model

import (
	"time"

	"github.com/google/uuid"
)

// SKU maps a sellable item code to its (bird_type, inventory_state)
// partition. Sale lines reference SKUs; the debit always lands on the
// partition behind the SKU.
type SKU struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code           string    `gorm:"uniqueIndex;not null"`
	Name           string    `gorm:"not null"`
	BirdType       string    `gorm:"type:varchar(20);not null"`
	InventoryState string    `gorm:"type:varchar(20);not null"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SKU) TableName() string { return "skus" }
